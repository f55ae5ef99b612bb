package internal

import (
	"context"
	"fmt"
	"iter"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// entityQuerier is the part of the table service the runner depends on.
type entityQuerier interface {
	// QueryEntities yields every entity of tableName matching filter.
	// Paging happens behind the iterator.
	QueryEntities(ctx context.Context, tableName string, filter string) iter.Seq2[Entity, error]
}

type clientFactory func(accountName string, accountKey string) (entityQuerier, error)

type azureTableClient struct {
	service *aztables.ServiceClient
}

func serviceURL(endpoint string, accountName string) string {
	if endpoint != "" {
		return endpoint
	}
	return fmt.Sprintf("https://%s.table.core.windows.net/", accountName)
}

func newAzureClientFactory(endpoint string) clientFactory {
	return func(accountName string, accountKey string) (entityQuerier, error) {
		cred, err := aztables.NewSharedKeyCredential(accountName, accountKey)
		if err != nil {
			return nil, err
		}

		service, err := aztables.NewServiceClientWithSharedKey(serviceURL(endpoint, accountName), cred, nil)
		if err != nil {
			return nil, err
		}

		return &azureTableClient{service: service}, nil
	}
}

func (c *azureTableClient) QueryEntities(ctx context.Context, tableName string, filter string) iter.Seq2[Entity, error] {
	return func(yield func(Entity, error) bool) {
		options := &aztables.ListEntitiesOptions{}
		if filter != "" {
			options.Filter = &filter
		}

		pager := c.service.NewClient(tableName).NewListEntitiesPager(options)
		for pager.More() {
			resp, err := pager.NextPage(ctx)
			if err != nil {
				yield(Entity{}, err)
				return
			}

			for _, raw := range resp.Entities {
				entity, err := decodeEntity(raw)
				if !yield(entity, err) || err != nil {
					return
				}
			}
		}
	}
}
