// Package warehouse executes analytics SQL against BigQuery.
package warehouse

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// Parameter is a named query parameter bound into a parameterized query.
type Parameter struct {
	Name  string
	Value any
}

// Result holds the rows of an analytics query together with the column order
// from the result schema, so callers can render tables deterministically.
type Result struct {
	Columns []string
	Rows    []map[string]bigquery.Value
}

// Client wraps the BigQuery client for parameterized analytics queries.
type Client struct {
	bq *bigquery.Client
}

// NewClient creates a BigQuery-backed warehouse client for the given project.
// Credentials come from Application Default Credentials.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	if projectID == "" {
		return nil, errors.New("warehouse: project ID is required")
	}
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	return &Client{bq: bq}, nil
}

// Close releases the underlying BigQuery client.
func (c *Client) Close() error {
	return c.bq.Close()
}

// RunQuery executes a parameterized SQL query and collects all rows.
func (c *Client) RunQuery(ctx context.Context, sql string, params []Parameter) (*Result, error) {
	q := c.bq.Query(sql)
	for _, p := range params {
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{
			Name:  p.Name,
			Value: p.Value,
		})
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	result := &Result{}
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if result.Columns == nil {
			for _, field := range it.Schema {
				result.Columns = append(result.Columns, field.Name)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
