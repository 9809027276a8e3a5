package store

import (
	"context"
	"fmt"
)

// RebuildAccountTree recomputes the nested-set bounds (lft/rgt) of every account owned
// by company in one pass. Children are numbered in creation order.
func (s *Store) RebuildAccountTree(ctx context.Context, company string) error {
	ctx, span := spanFor(ctx, "store.rebuild_account_tree", company)
	defer span.End()

	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		rows, err := s.reads(ctx).QueryContext(ctx,
			`SELECT id, COALESCE(parent_id, '') FROM accounts WHERE company = ? ORDER BY rowid`, company)
		if err != nil {
			return fmt.Errorf("load account tree: %w", err)
		}

		children := map[string][]string{}
		known := map[string]bool{}
		var order []string
		for rows.Next() {
			var id, parent string
			if err := rows.Scan(&id, &parent); err != nil {
				rows.Close()
				return fmt.Errorf("scan account tree: %w", err)
			}
			known[id] = true
			order = append(order, id)
			children[parent] = append(children[parent], id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		// Accounts whose parent belongs to no loaded row are treated as roots.
		var roots []string
		for parent, ids := range children {
			if parent == "" || !known[parent] {
				roots = append(roots, ids...)
			}
		}
		roots = inOrder(roots, order)

		bounds := make(map[string][2]int, len(order))
		counter := 0
		var visit func(id string)
		visit = func(id string) {
			counter++
			lft := counter
			for _, c := range children[id] {
				visit(c)
			}
			counter++
			bounds[id] = [2]int{lft, counter}
		}
		for _, id := range roots {
			visit(id)
		}

		q := s.writes(ctx)
		for _, id := range order {
			b := bounds[id]
			if _, err := q.ExecContext(ctx, `UPDATE accounts SET lft = ?, rgt = ? WHERE id = ?`, b[0], b[1], id); err != nil {
				return fmt.Errorf("update bounds of %s: %w", id, err)
			}
		}
		return nil
	})
}

// inOrder sorts ids by their position in order.
func inOrder(ids, order []string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range order {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}
