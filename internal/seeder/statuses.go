package seeder

import "context"

func (s *Seeder) seedOrderStatuses(ctx context.Context) (TableResult, error) {
	return seedDocument(ctx, s, TableOrderStatus, []string{"status"}, s.source.OrderStatuses, func(o OrderStatus) []any {
		return []any{o.Status}
	})
}
