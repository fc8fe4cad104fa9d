package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/output"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long: `List users with optional filters.

Examples:
  alumnet users list                  # List all users
  alumnet users list --role=alumni    # List alumni only
  alumnet users list --limit=20 -o json`,
	RunE: runUsersList,
}

var usersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show user details",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersShow,
}

var (
	usersRole   string
	usersLimit  int
	usersOffset int
)

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersShowCmd)

	usersListCmd.Flags().StringVar(&usersRole, "role", "", "Filter by role (student, alumni)")
	usersListCmd.Flags().IntVar(&usersLimit, "limit", 0, "Maximum number of results")
	usersListCmd.Flags().IntVar(&usersOffset, "offset", 0, "Number of results to skip")
}

func runUsersList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := database.ListOptions{
		Limit:  usersLimit,
		Offset: usersOffset,
	}
	if usersRole != "" {
		role := database.Role(usersRole)
		if !role.Supported() {
			return fmt.Errorf("invalid role: %s (use student or alumni)", usersRole)
		}
		opts.Role = &role
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	users, err := a.db.ListUsers(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	return output.Output(outputFmt, users)
}

func runUsersShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.db.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found: %d", id)
	}

	return output.Output(outputFmt, user)
}

// parseUserID parses a positive user id argument
func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id: %s", s)
	}
	return id, nil
}
