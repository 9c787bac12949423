package seeder

import "context"

var customerColumns = []string{"first_name", "last_name", "email", "phone", "add_1", "add_2", "city", "state", "zip", "country"}

func (s *Seeder) seedCustomers(ctx context.Context) (TableResult, error) {
	return seedDocument(ctx, s, TableCustomers, customerColumns, s.source.Customers, func(c Customer) []any {
		return []any{c.FirstName, c.LastName, c.Email, c.Phone, c.Add1, c.Add2, c.City, c.State, c.Zip, c.Country}
	})
}
