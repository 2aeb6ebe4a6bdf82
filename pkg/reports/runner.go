package reports

import (
	"context"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
)

// fetch runs a windowed query and feeds every node into addItem. A query
// failure is absorbed, the page degrades to empty.
func (b *Base) fetch(ctx context.Context, session Session, q repo.Query, offset, limit int, addItem func(node *content.Node)) {
	nodes, err := session.QueryNodes(ctx, q, offset, limit)
	if err != nil {
		b.absorbQueryError(err)
		return
	}
	for _, node := range nodes {
		addItem(node)
	}
}

// fetchAll like fetch, without a window
func (b *Base) fetchAll(ctx context.Context, session Session, q repo.Query, addItem func(node *content.Node)) {
	b.fetch(ctx, session, q, 0, -1, addItem)
}

// count runs an unwindowed count query, degrading to 0 on failure. It is a
// separate evaluation from fetch, there is no snapshot isolation between
// the two.
func (b *Base) count(ctx context.Context, session Session, q repo.Query) int {
	total, err := session.Count(ctx, q)
	if err != nil {
		b.absorbQueryError(err)
		return 0
	}
	return total
}

// QueryReport a plain table report over a single query: one page of rows
// plus the unwindowed total.
type QueryReport struct {
	Base
	Query repo.Query
	// Row projects a node into a data row, nil skips the node
	Row   func(node *content.Node) []interface{}
	rows  [][]interface{}
	total int
}

func (r *QueryReport) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.fetch(ctx, session, r.Query, offset, limit, r.AddItem)
	r.total = r.count(ctx, session, r.Query)
	return nil
}

func (r *QueryReport) AddItem(node *content.Node) {
	if row := r.Row(node); row != nil {
		r.rows = append(r.rows, row)
	}
}

func (r *QueryReport) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = r.Rows()
	return payload
}

// Rows the collected data rows, never nil
func (r *QueryReport) Rows() [][]interface{} {
	return emptyRows(r.rows)
}
