package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/supplyline/supplyline/internal/app"
	"github.com/supplyline/supplyline/internal/inventory"
	"github.com/supplyline/supplyline/internal/orders"
	"github.com/supplyline/supplyline/internal/payments"
	"github.com/supplyline/supplyline/internal/shared"
	"github.com/supplyline/supplyline/internal/shipments"
	"github.com/supplyline/supplyline/internal/store"
	"github.com/supplyline/supplyline/internal/suppliers"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small demo data set",
		Long: `Insert one supplier with three inventory items, a paid order with its
shipment and an unpaid order. Running it twice inserts the set twice.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			return seed(cmd.Context(), rt.services, cmd.OutOrStdout())
		},
	}
}

func seed(ctx context.Context, svc *app.Services, out io.Writer) error {
	supplier, err := svc.Suppliers.Create(ctx, suppliers.Supplier{
		Name:          "Northwind Metals",
		ContactPerson: "Dana Reyes",
		Phone:         "+1 555 0100",
		Email:         "orders@northwind.example",
		Address:       "12 Foundry Lane",
		City:          "Pittsburgh",
	})
	if err != nil {
		return fmt.Errorf("seed supplier: %w", err)
	}

	items := make([]inventory.Item, 0, 3)
	for _, it := range []inventory.Item{
		{Name: "Steel bolts", Quantity: 500},
		{Name: "Copper wire", Quantity: 20},
		{Name: "Pallets", Quantity: 45},
	} {
		it.SupplierID = supplier.ID
		created, err := svc.Inventory.Create(ctx, it)
		if err != nil {
			return fmt.Errorf("seed item %q: %w", it.Name, err)
		}
		items = append(items, created)
	}

	today := time.Now().UTC()
	date := func(offset int) store.Date {
		d := today.AddDate(0, 0, offset)
		return store.NewDate(d.Year(), d.Month(), d.Day())
	}

	paid, err := svc.Orders.Create(ctx, orders.Order{
		OrderDate:    date(-3),
		CustomerName: "Acme Fabrication",
		ItemID:       items[0].ID,
		Quantity:     120,
	})
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	if _, err := svc.Shipments.Create(ctx, shipments.Shipment{
		OrderID:      paid.ID,
		ShipmentDate: date(-2),
		DeliveryDate: date(1),
		Status:       shared.StatusShipped,
	}); err != nil {
		return fmt.Errorf("seed shipment: %w", err)
	}
	if _, err := svc.Payments.Add(ctx, payments.Payment{
		OrderID:       paid.ID,
		Amount:        decimal.RequireFromString("1440.00"),
		PaymentDate:   date(-1),
		PaymentMethod: "Bank transfer",
	}); err != nil {
		return fmt.Errorf("seed payment: %w", err)
	}

	open, err := svc.Orders.Create(ctx, orders.Order{
		OrderDate:    date(0),
		CustomerName: "Harbor Logistics",
		ItemID:       items[2].ID,
		Quantity:     10,
	})
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}

	_, err = fmt.Fprintf(out, "seeded supplier %d, %d items, orders %d (paid) and %d (open)\n",
		supplier.ID, len(items), paid.ID, open.ID)
	return err
}
