package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/boxify/boxify/internal/browser"
	"github.com/boxify/boxify/internal/cart"
	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/domain"
)

// errReported is returned once the failure has already been printed as a
// toast, so main only sets the exit code.
var errReported = errors.New("already reported")

// openURL is swapped in tests.
var openURL = browser.Open

// pages maps the names accepted by `boxify open` to storefront paths.
var pages = map[string]string{
	"home":          "/",
	"boxes":         "/boxes",
	"build":         "/build-box",
	"cart":          "/cart",
	"checkout":      "/checkout",
	"dashboard":     "/dashboard",
	"orders":        "/dashboard/orders",
	"subscriptions": "/dashboard/subscriptions",
	"admin":         "/admin",
	"login":         "/login",
	"register":      "/register",
}

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
	dimColor  = color.New(color.FgHiBlack)
	boldColor = color.New(color.Bold)
)

// printer renders store toasts as colored lines on w.
func printer(w io.Writer) notify.Notifier {
	return notify.Func(func(n notify.Notification) {
		switch n.Level {
		case notify.Success:
			okColor.Fprintf(w, "✓ %s\n", n.Message) //nolint:errcheck
		case notify.Error:
			errColor.Fprintf(w, "✗ %s\n", n.Message) //nolint:errcheck
		default:
			infoColor.Fprintf(w, "• %s\n", n.Message) //nolint:errcheck
		}
	})
}

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, r: bufio.NewReader(in), out: cmd.ErrOrStderr()}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label+": ") //nolint:errcheck
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(label)
	}
	fmt.Fprint(p.out, label+": ") //nolint:errcheck
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out) //nolint:errcheck
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}

// ask returns preset when set and prompts otherwise.
func (p *prompter) ask(preset, label string) (string, error) {
	if preset != "" {
		return preset, nil
	}
	return p.line(label)
}

func loginCmd(f *flags) *cobra.Command {
	var emailFlag string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			email, err := p.ask(emailFlag, "Email")
			if err != nil {
				return err
			}
			password, err := p.secret("Password")
			if err != nil {
				return err
			}
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}

			a, err := setup(*f, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer a.Close()

			profile, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				a.log.Debug("login failed", zap.Error(err))
				return errReported
			}
			if profile.IsAdmin() {
				dimColor.Fprintln(cmd.OutOrStdout(), "Signed in as admin. Run boxify to open the dashboard.") //nolint:errcheck
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&emailFlag, "email", "e", "", "account email")
	return cmd
}

func registerCmd(f *flags) *cobra.Command {
	var nameFlag, emailFlag string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			name, err := p.ask(nameFlag, "Name")
			if err != nil {
				return err
			}
			email, err := p.ask(emailFlag, "Email")
			if err != nil {
				return err
			}
			password, err := p.secret("Password")
			if err != nil {
				return err
			}
			confirm, err := p.secret("Confirm password")
			if err != nil {
				return err
			}
			if name == "" || email == "" || password == "" {
				return errors.New("name, email and password are required")
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			a, err := setup(*f, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.session.Register(cmd.Context(), name, email, password); err != nil {
				a.log.Debug("register failed", zap.Error(err))
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&emailFlag, "email", "e", "", "account email")
	return cmd
}

func logoutCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(*f, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer a.Close()
			a.session.Logout(cmd.Context())
			return nil
		},
	}
}

func whoamiCmd(f *flags) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			a, err := setup(*f, printer(out))
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.session.Restore(cmd.Context()) {
				dimColor.Fprintln(out, "Not signed in. Run: boxify login") //nolint:errcheck
				return nil
			}
			if refresh {
				if err := a.session.RefreshUser(cmd.Context()); err != nil {
					if !a.session.Authenticated() {
						errColor.Fprintln(out, "Session expired. Run: boxify login") //nolint:errcheck
						return errReported
					}
					dimColor.Fprintln(out, "Could not refresh, showing saved profile") //nolint:errcheck
				}
			}
			profile, _ := a.session.Profile()
			printProfile(out, profile)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "reload the profile from the server")
	return cmd
}

func printProfile(w io.Writer, p domain.Profile) {
	boldColor.Fprintln(w, p.Name) //nolint:errcheck
	fmt.Fprintln(w, p.Email)      //nolint:errcheck
	if p.IsAdmin() {
		infoColor.Fprintln(w, "admin") //nolint:errcheck
	}
	for _, addr := range p.Addresses {
		label := addr.Label
		if label == "" {
			label = "Address"
		}
		line := fmt.Sprintf("  %s: %s, %s", label, addr.Street, addr.City)
		if addr.IsDefault {
			line += " (default)"
		}
		dimColor.Fprintln(w, line) //nolint:errcheck
	}
}

func cartCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCart(cmd, f, func(_ *cart.Store, c domain.Cart) error {
				printCart(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "rm <line>",
			Short: "Remove a cart line by its number",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid line %q", args[0])
				}
				return withCart(cmd, f, func(s *cart.Store, c domain.Cart) error {
					if n > len(c.Items) {
						return fmt.Errorf("cart has %d lines", len(c.Items))
					}
					out := cmd.OutOrStdout()
					if err := s.RemoveItem(cmd.Context(), c.Items[n-1].ID); err != nil {
						errColor.Fprintf(out, "✗ %s\n", client.UserMessage(err, "Failed to remove")) //nolint:errcheck
						return errReported
					}
					okColor.Fprintln(out, "✓ Removed from cart") //nolint:errcheck
					printCart(out, s.Snapshot())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cart line",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withCart(cmd, f, func(s *cart.Store, _ domain.Cart) error {
					out := cmd.OutOrStdout()
					if err := s.ClearCart(cmd.Context()); err != nil {
						errColor.Fprintf(out, "✗ %s\n", client.UserMessage(err, "Failed to clear cart")) //nolint:errcheck
						return errReported
					}
					okColor.Fprintln(out, "✓ Cart cleared") //nolint:errcheck
					return nil
				})
			},
		},
	)
	return cmd
}

// withCart restores the session, loads the cart once and hands both to fn.
func withCart(cmd *cobra.Command, f *flags, fn func(*cart.Store, domain.Cart) error) error {
	out := cmd.OutOrStdout()
	a, err := setup(*f, printer(out))
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.session.Restore(cmd.Context()) {
		dimColor.Fprintln(out, "Not signed in. Run: boxify login") //nolint:errcheck
		return errReported
	}
	s := a.attachCart()
	if err := s.FetchCart(cmd.Context()); err != nil {
		errColor.Fprintf(out, "✗ %s\n", client.UserMessage(err, "Failed to load cart")) //nolint:errcheck
		return errReported
	}
	return fn(s, s.Snapshot())
}

func printCart(w io.Writer, c domain.Cart) {
	if c.IsEmpty() {
		dimColor.Fprintln(w, "Your cart is empty") //nolint:errcheck
		return
	}
	for i, it := range c.Items {
		fmt.Fprintf(w, "%d. %s x%d  %s\n", i+1, it.DisplayName(), it.EffectiveQuantity(), price(it.TotalPrice)) //nolint:errcheck
		dimColor.Fprintf(w, "   %d meals, %d servings each\n", it.MealsCount, it.ServingsPerMeal) //nolint:errcheck
	}
	boldColor.Fprintf(w, "Total (%d items): %s\n", c.ItemCount(), price(c.CartTotal)) //nolint:errcheck
}

func price(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d EGP", int64(v))
	}
	return fmt.Sprintf("%.2f EGP", v)
}

func openCmd(f *flags) *cobra.Command {
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return &cobra.Command{
		Use:       "open [page]",
		Short:     "Open a storefront page in the browser",
		Long:      "Open a storefront page in the browser. Pages: " + strings.Join(names, ", ") + ", or any path starting with /.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				p, ok := pages[args[0]]
				switch {
				case ok:
					path = p
				case strings.HasPrefix(args[0], "/"):
					path = args[0]
				default:
					return fmt.Errorf("unknown page %q", args[0])
				}
			}
			a, err := setup(*f, notify.Discard)
			if err != nil {
				return err
			}
			defer a.Close()

			url := a.cfg.WebPage(path)
			if err := openURL(url); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Open %s in your browser\n", url) //nolint:errcheck
				return nil
			}
			dimColor.Fprintf(cmd.OutOrStdout(), "Opened %s\n", url) //nolint:errcheck
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "boxify "+version) //nolint:errcheck
		},
	}
}
