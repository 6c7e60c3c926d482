package admin

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var customerCSVHeader = []string{"ID", "Name", "Email", "Address", "Phone", "Notes"}

// ExportCustomersCSV writes every customer and its detail as CSV. The output
// starts with a UTF-8 byte order mark so spreadsheet tools pick the right
// encoding for accented names.
func (s *Service) ExportCustomersCSV(ctx context.Context, w io.Writer) error {
	customers, err := s.customers.GetAll(ctx)
	if err != nil {
		return err
	}
	details, err := s.customers.GetAllDetails(ctx)
	if err != nil {
		return err
	}
	byID := make(map[int64]int, len(details))
	for i, d := range details {
		byID[d.ID] = i
	}

	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)
	if err := cw.Write(customerCSVHeader); err != nil {
		return err
	}
	for _, c := range customers {
		row := []string{strconv.FormatInt(c.ID, 10), c.Name, c.Email, "", "", ""}
		if i, ok := byID[c.ID]; ok {
			d := details[i]
			row[3] = d.Address
			if d.Phone != nil {
				row[4] = *d.Phone
			}
			row[5] = d.Notes
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Close()
}
