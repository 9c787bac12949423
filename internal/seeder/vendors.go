package seeder

import "context"

var vendorColumns = []string{"name", "phone", "add_1", "add_2", "city", "state", "zip", "country"}

func (s *Seeder) seedVendors(ctx context.Context) (TableResult, error) {
	return seedDocument(ctx, s, TableVendors, vendorColumns, s.source.Vendors, func(v Vendor) []any {
		return []any{v.Name, v.Phone, v.Add1, v.Add2, v.City, v.State, v.Zip, v.Country}
	})
}
