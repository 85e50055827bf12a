package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dejobratic/gamestore/internal/store/app"
	"github.com/dejobratic/gamestore/internal/store/app/queries"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const prompt = "> "

var errUsage = errors.New("usage")

// Store is the set of store operations the console drives.
type Store interface {
	RegisterCompany(ctx context.Context, name, taxID string) (*domain.Company, error)
	RemoveCompany(ctx context.Context, taxID string) error
	EditCompany(ctx context.Context, taxID string, update domain.CompanyUpdate) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)

	RegisterProduct(ctx context.Context, taxID string, input app.NewProduct) (*domain.Product, error)
	RemoveProduct(ctx context.Context, taxID, name string) error
	EditProduct(ctx context.Context, taxID, name string, edit app.ProductEdit) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)

	RegisterCustomer(ctx context.Context, name, id string, age int) (*domain.Customer, error)
	RemoveCustomer(ctx context.Context, id string) error
	EditCustomer(ctx context.Context, id string, update domain.CustomerUpdate) (*domain.Customer, error)
	Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Customer, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	Purchase(ctx context.Context, customerID, productName string) (*domain.Transaction, error)
	Refund(ctx context.Context, customerID, productName string) (*domain.Transaction, error)
	History(ctx context.Context, customerID string) ([]domain.Transaction, error)
	OwnedProducts(ctx context.Context, customerID string) ([]queries.OwnedProduct, error)
	FinancialReport(ctx context.Context) (domain.Report, error)
}

// Console reads store commands line by line and prints their results.
type Console struct {
	store  Store
	out    io.Writer
	logger *slog.Logger
	app    *cli.App
}

func New(store Store, out io.Writer, logger *slog.Logger) *Console {
	c := &Console{store: store, out: out, logger: logger}
	c.app = c.newApp()
	return c
}

// Run executes commands from in until it is exhausted or a quit command is
// read. A failing command is reported and the loop carries on.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(c.out, prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}

		if err := c.Execute(ctx, line); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, prompt)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

// Execute runs a single command line.
func (c *Console) Execute(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	c.logger.DebugContext(ctx, "executing command", "command", args[0])
	return c.app.RunContext(ctx, append([]string{c.app.Name}, args...))
}

func (c *Console) newApp() *cli.App {
	return &cli.App{
		Name:      "store",
		Usage:     "game storefront",
		Writer:    c.out,
		ErrWriter: c.out,
		// Commands never terminate the process.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(cCtx *cli.Context) error {
			if cCtx.Args().Present() {
				return fmt.Errorf("unknown command %q, try help", cCtx.Args().First())
			}
			return cli.ShowAppHelp(cCtx)
		},
		Commands: []*cli.Command{
			c.companyCommand(),
			c.productCommand(),
			c.customerCommand(),
			{
				Name:      "purchase",
				Usage:     "sell a product to a customer",
				ArgsUsage: "<customer-id> <product>",
				Action:    c.transaction(c.store.Purchase),
			},
			{
				Name:      "refund",
				Usage:     "take a product back at its current price",
				ArgsUsage: "<customer-id> <product>",
				Action:    c.transaction(c.store.Refund),
			},
			{
				Name:      "history",
				Usage:     "list a customer's transactions",
				ArgsUsage: "<customer-id>",
				Action:    c.history,
			},
			{
				Name:   "report",
				Usage:  "show store revenue and profit",
				Action: c.report,
			},
		},
	}
}

func (c *Console) companyCommand() *cli.Command {
	return &cli.Command{
		Name:  "company",
		Usage: "manage companies",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register a company",
				ArgsUsage: "<tax-id> <name>",
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 2)
					if err != nil {
						return err
					}
					company, err := c.store.RegisterCompany(cCtx.Context, args[1], args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(c.out, "registered %s\n", company)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "remove a company and its listings",
				ArgsUsage: "<tax-id>",
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 1)
					if err != nil {
						return err
					}
					if err := c.store.RemoveCompany(cCtx.Context, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(c.out, "removed company %s\n", args[0])
					return nil
				},
			},
			{
				Name:      "edit",
				Usage:     "rename a company",
				ArgsUsage: "[--name NAME] <tax-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "new company name"},
				},
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 1)
					if err != nil {
						return err
					}
					var update domain.CompanyUpdate
					if cCtx.IsSet("name") {
						update.Name = ptr(cCtx.String("name"))
					}
					company, err := c.store.EditCompany(cCtx.Context, args[0], update)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.out, "updated %s\n", company)
					return nil
				},
			},
			{
				Name:  "ls",
				Usage: "list companies",
				Action: func(cCtx *cli.Context) error {
					companies, err := c.store.ListCompanies(cCtx.Context)
					if err != nil {
						return err
					}
					if len(companies) == 0 {
						fmt.Fprintln(c.out, "no companies registered")
					}
					for _, company := range companies {
						fmt.Fprintf(c.out, "%s (%d products)\n", company, len(company.Products))
					}
					return nil
				},
			},
		},
	}
}

func (c *Console) productCommand() *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "manage product listings",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "list a product under a company",
				ArgsUsage: "[options] <tax-id> <name> <base-price>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "platform"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "promotion", Usage: "none, launch or year-end"},
				},
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 3)
					if err != nil {
						return err
					}
					price, err := parseMoney(args[2])
					if err != nil {
						return err
					}
					product, err := c.store.RegisterProduct(cCtx.Context, args[0], app.NewProduct{
						Name:      args[1],
						BasePrice: price,
						Platform:  cCtx.String("platform"),
						Category:  cCtx.String("category"),
						Promotion: cCtx.String("promotion"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.out, "listed %s\n", product)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "unlist a product",
				ArgsUsage: "<tax-id> <name>",
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 2)
					if err != nil {
						return err
					}
					if err := c.store.RemoveProduct(cCtx.Context, args[0], args[1]); err != nil {
						return err
					}
					fmt.Fprintf(c.out, "removed product %s\n", args[1])
					return nil
				},
			},
			{
				Name:      "edit",
				Usage:     "change any of a product's fields",
				ArgsUsage: "[options] <tax-id> <name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "new product name"},
					&cli.StringFlag{Name: "price", Usage: "new base price"},
					&cli.StringFlag{Name: "platform"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "promotion", Usage: "none, launch or year-end"},
				},
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 2)
					if err != nil {
						return err
					}
					var edit app.ProductEdit
					if cCtx.IsSet("name") {
						edit.Name = ptr(cCtx.String("name"))
					}
					if cCtx.IsSet("price") {
						price, err := parseMoney(cCtx.String("price"))
						if err != nil {
							return err
						}
						edit.BasePrice = &price
					}
					if cCtx.IsSet("platform") {
						edit.Platform = ptr(cCtx.String("platform"))
					}
					if cCtx.IsSet("category") {
						edit.Category = ptr(cCtx.String("category"))
					}
					if cCtx.IsSet("promotion") {
						edit.Promotion = ptr(cCtx.String("promotion"))
					}
					product, err := c.store.EditProduct(cCtx.Context, args[0], args[1], edit)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.out, "updated %s\n", product)
					return nil
				},
			},
			{
				Name:  "ls",
				Usage: "list every product",
				Action: func(cCtx *cli.Context) error {
					products, err := c.store.ListProducts(cCtx.Context)
					if err != nil {
						return err
					}
					if len(products) == 0 {
						fmt.Fprintln(c.out, "no products listed")
					}
					for _, product := range products {
						fmt.Fprintln(c.out, product)
					}
					return nil
				},
			},
		},
	}
}

func (c *Console) customerCommand() *cli.Command {
	return &cli.Command{
		Name:  "customer",
		Usage: "manage customer accounts",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register a customer",
				ArgsUsage: "<id> <name> <age>",
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 3)
					if err != nil {
						return err
					}
					age, err := strconv.Atoi(args[2])
					if err != nil {
						return fmt.Errorf("%w: age must be a whole number", domain.ErrInvalidInput)
					}
					customer, err := c.store.RegisterCustomer(cCtx.Context, args[1], args[0], age)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.out, "registered %s\n", customer)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "remove a customer who owns nothing",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 1)
					if err != nil {
						return err
					}
					if err := c.store.RemoveCustomer(cCtx.Context, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(c.out, "removed customer %s\n", args[0])
					return nil
				},
			},
			{
				Name:      "edit",
				Usage:     "change a customer's name or age",
				ArgsUsage: "[options] <id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.IntFlag{Name: "age"},
				},
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 1)
					if err != nil {
						return err
					}
					var update domain.CustomerUpdate
					if cCtx.IsSet("name") {
						update.Name = ptr(cCtx.String("name"))
					}
					if cCtx.IsSet("age") {
						update.Age = ptr(cCtx.Int("age"))
					}
					customer, err := c.store.EditCustomer(cCtx.Context, args[0], update)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.out, "updated %s\n", customer)
					return nil
				},
			},
			{
				Name:      "deposit",
				Usage:     "credit a customer's balance",
				ArgsUsage: "<id> <amount>",
				Action:    c.balance(c.store.Deposit),
			},
			{
				Name:      "withdraw",
				Usage:     "debit a customer's balance",
				ArgsUsage: "<id> <amount>",
				Action:    c.balance(c.store.Withdraw),
			},
			{
				Name:      "games",
				Usage:     "list the products a customer owns",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					args, err := requireArgs(cCtx, 1)
					if err != nil {
						return err
					}
					owned, err := c.store.OwnedProducts(cCtx.Context, args[0])
					if err != nil {
						return err
					}
					if len(owned) == 0 {
						fmt.Fprintln(c.out, "no products owned")
					}
					for _, o := range owned {
						if o.Product == nil {
							fmt.Fprintf(c.out, "%s (no longer listed)\n", o.Name)
							continue
						}
						fmt.Fprintln(c.out, o.Product)
					}
					return nil
				},
			},
			{
				Name:  "ls",
				Usage: "list customers",
				Action: func(cCtx *cli.Context) error {
					customers, err := c.store.ListCustomers(cCtx.Context)
					if err != nil {
						return err
					}
					if len(customers) == 0 {
						fmt.Fprintln(c.out, "no customers registered")
					}
					for _, customer := range customers {
						fmt.Fprintln(c.out, customer)
					}
					return nil
				},
			},
		},
	}
}

type balanceFunc func(ctx context.Context, id string, amount decimal.Decimal) (*domain.Customer, error)

func (c *Console) balance(fn balanceFunc) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		args, err := requireArgs(cCtx, 2)
		if err != nil {
			return err
		}
		amount, err := parseMoney(args[1])
		if err != nil {
			return err
		}
		customer, err := fn(cCtx.Context, args[0], amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "balance of %s is now %s\n", customer.ID, customer.Balance.StringFixed(2))
		return nil
	}
}

type transactionFunc func(ctx context.Context, customerID, productName string) (*domain.Transaction, error)

func (c *Console) transaction(fn transactionFunc) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		args, err := requireArgs(cCtx, 2)
		if err != nil {
			return err
		}
		tx, err := fn(cCtx.Context, args[0], args[1])
		if tx != nil {
			fmt.Fprintln(c.out, formatTransaction(*tx))
		}
		return err
	}
}

func (c *Console) history(cCtx *cli.Context) error {
	args, err := requireArgs(cCtx, 1)
	if err != nil {
		return err
	}
	history, err := c.store.History(cCtx.Context, args[0])
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(c.out, "no transactions")
	}
	for _, tx := range history {
		fmt.Fprintln(c.out, formatTransaction(tx))
	}
	return nil
}

func (c *Console) report(cCtx *cli.Context) error {
	report, err := c.store.FinancialReport(cCtx.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "revenue: %s\nprofit: %s\n", report.Revenue.StringFixed(2), report.Profit.StringFixed(2))
	return nil
}

func formatTransaction(tx domain.Transaction) string {
	return fmt.Sprintf("%s %s %s %q %s",
		tx.CreatedAt.Format("2006-01-02 15:04:05"), tx.Kind, tx.CustomerID, tx.ProductName, tx.Amount.StringFixed(2))
}

func requireArgs(cCtx *cli.Context, n int) ([]string, error) {
	if cCtx.NArg() != n {
		return nil, fmt.Errorf("%w: %s %s", errUsage, cCtx.Command.FullName(), cCtx.Command.ArgsUsage)
	}
	return cCtx.Args().Slice(), nil
}

func parseMoney(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an amount", domain.ErrInvalidInput, raw)
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, fmt.Errorf("%w: %q has more than two decimal places", domain.ErrInvalidInput, raw)
	}
	return amount, nil
}

func ptr[T any](v T) *T { return &v }
