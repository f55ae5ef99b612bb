package internal

// ErrorKind tells which step of a query failed.
type ErrorKind int

const (
	KindClient ErrorKind = iota
	KindQuery
	KindSerialization
)

func (k ErrorKind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindQuery:
		return "query"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// OperationError is returned by RunQuery for every failure. Its message is
// the message of the underlying error, unchanged.
type OperationError struct {
	Kind ErrorKind
	Err  error
}

func (e *OperationError) Error() string {
	return e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
