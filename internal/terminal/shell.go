package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/noah-isme/store-terminal/internal/cart"
	"github.com/noah-isme/store-terminal/internal/catalog"
	"github.com/noah-isme/store-terminal/internal/pricing"
)

const helpText = `commands:
  cart print | c p        optimize and print the cart
  cart reset | c r        empty the cart
  cart scan <codes>       scan products, one letter per unit
  db                      print the catalog
  h                       this help
  q                       quit
`

// Shell is a line-oriented operator console over a cart and its
// catalog. It reads commands from In and writes to Out, which keeps it
// testable with plain buffers.
type Shell struct {
	In      io.Reader
	Out     io.Writer
	Cart    *cart.Service
	Catalog *catalog.Store
	Log     zerolog.Logger
}

// Run processes commands until q, EOF, or a read error. Context
// cancellation is checked between commands.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)
	fmt.Fprint(s.Out, helpText)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := s.dispatch(ctx, line); quit {
			return nil
		}
	}
	return scanner.Err()
}

// dispatch runs one command line and reports whether the shell should
// exit.
func (s *Shell) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "q", "quit":
		fmt.Fprintln(s.Out, "bye")
		return true
	case "h", "help":
		fmt.Fprint(s.Out, helpText)
	case "db":
		s.printCatalog()
	case "c", "cart":
		s.cartCommand(ctx, fields[1:])
	default:
		fmt.Fprint(s.Out, helpText)
	}
	return false
}

func (s *Shell) cartCommand(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprint(s.Out, helpText)
		return
	}
	switch args[0] {
	case "p", "print":
		s.printCart(ctx)
	case "r", "reset":
		s.Cart.Reset()
		fmt.Fprintln(s.Out, "cart is empty")
	case "s", "scan":
		if len(args) < 2 {
			fmt.Fprintln(s.Out, "usage: cart scan <codes>")
			return
		}
		codes := strings.ToUpper(strings.Join(args[1:], ""))
		if err := s.Cart.Scan(codes); err != nil {
			fmt.Fprintf(s.Out, "scan failed: %v\n", err)
			return
		}
		fmt.Fprintf(s.Out, "scanned %d item(s)\n", utf8.RuneCountInString(codes))
	default:
		fmt.Fprint(s.Out, helpText)
	}
}

func (s *Shell) printCart(ctx context.Context) {
	if _, err := s.Cart.Optimize(ctx); err != nil {
		s.Log.Error().Err(err).Msg("optimize failed")
		fmt.Fprintf(s.Out, "optimize failed: %v\n", err)
		return
	}
	lines := s.Cart.Items()
	if len(lines) == 0 {
		fmt.Fprintln(s.Out, "cart is empty")
		return
	}
	for _, line := range lines {
		switch l := line.(type) {
		case cart.ProductLine:
			q := l.Quantity
			fmt.Fprintf(s.Out, "  %s x%d @ %s = %s\n",
				q.Product.Code, q.Amount,
				pricing.FormatMoney(q.Product.Price),
				pricing.FormatMoney(l.Total()))
		case cart.PromotionLine:
			fmt.Fprintf(s.Out, "  %s x%d = %s (saves %s)\n",
				l.Promotion.Code, l.Count,
				pricing.FormatMoney(l.Total()),
				pricing.FormatMoney(l.Discount()))
		}
	}
	fmt.Fprintf(s.Out, "total: %s\n", pricing.FormatMoney(s.Cart.TotalPrice()))
}

func (s *Shell) printCatalog() {
	fmt.Fprintln(s.Out, "products:")
	for _, p := range s.Catalog.Products() {
		fmt.Fprintf(s.Out, "  %s %s\n", p.Code, pricing.FormatMoney(p.Price))
	}
	fmt.Fprintln(s.Out, "promotions:")
	for _, p := range s.Catalog.Promotions() {
		reqs := make([]string, 0, len(p.Requirements))
		for _, q := range p.Requirements {
			reqs = append(reqs, fmt.Sprintf("%dx%s", q.Amount, q.Product.Code))
		}
		fmt.Fprintf(s.Out, "  %s [%s] %s\n", p.Code, strings.Join(reqs, " "), pricing.FormatMoney(p.Price))
	}
}
