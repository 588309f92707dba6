package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/client"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/client/pages"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/user"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/domain/worklog"
	"github.com/spf13/cobra"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Admin user management"}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := pages.NewUserManagementPage(a.client(), terminalNotifier{a.err})
			if err := p.Load(cmd.Context()); err != nil {
				return errSilent
			}
			return a.printUsers(p.Filtered(search))
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by name, email, username or role")

	var create user.CreateUserRequest
	var role string
	add := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			create.Role = user.Role(role)
			p := pages.NewUserManagementPage(a.client(), terminalNotifier{a.err})
			if err := p.Create(cmd.Context(), create); err != nil {
				return errSilent
			}
			return nil
		},
	}
	add.Flags().StringVar(&create.Email, "email", "", "email address")
	add.Flags().StringVar(&create.Password, "password", "", "initial password")
	add.Flags().StringVar(&create.Username, "username", "", "unique username")
	add.Flags().StringVar(&create.Name, "name", "", "display name")
	add.Flags().StringVar(&role, "role", string(user.RoleStudent), "admin, tutor or student")
	for _, f := range []string{"email", "password", "username", "name"} {
		_ = add.MarkFlagRequired(f)
	}

	var update user.UpdateUserRequest
	var updateRole string
	edit := &cobra.Command{
		Use:   "update <userId>",
		Short: "Overwrite a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			update.Role = user.Role(updateRole)
			p := pages.NewUserManagementPage(a.client(), terminalNotifier{a.err})
			if err := p.Update(cmd.Context(), id, update); err != nil {
				return errSilent
			}
			return nil
		},
	}
	edit.Flags().StringVar(&update.Email, "email", "", "email address")
	edit.Flags().StringVar(&update.Username, "username", "", "unique username")
	edit.Flags().StringVar(&update.Name, "name", "", "display name")
	edit.Flags().StringVar(&updateRole, "role", "", "admin, tutor or student")
	for _, f := range []string{"email", "username", "name", "role"} {
		_ = edit.MarkFlagRequired(f)
	}

	cmd.AddCommand(list, add, edit)
	return cmd
}

func newLogsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "logs", Short: "Work logs of one user"}

	var userID int64
	cmd.PersistentFlags().Int64Var(&userID, "user", 0, "owning user id")
	_ = cmd.MarkPersistentFlagRequired("user")

	var q client.WorkLogQuery
	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List work logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := pages.NewUserWorkLogsPage(a.client(), terminalNotifier{a.err}, userID)
			if err := p.Load(cmd.Context(), q); err != nil {
				return errSilent
			}
			return a.printWorkLogs(p.Filtered(search))
		},
	}
	list.Flags().StringVar(&q.StartDate, "start", "", "startDate, YYYY-MM-DD or RFC 3339")
	list.Flags().StringVar(&q.EndDate, "end", "", "endDate, YYYY-MM-DD or RFC 3339")
	list.Flags().StringVar(&q.Project, "project", "", "project name contains")
	list.Flags().StringVar(&search, "search", "", "filter the fetched list by project, part or description")

	var form worklog.Request
	addLogFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&form.ProjectName, "project", "", "project name")
		c.Flags().StringVar(&form.ProjectPart, "part", "", "project part")
		c.Flags().Float64Var(&form.HoursWorked, "hours", 0, "hours worked (1-24)")
		c.Flags().StringVar(&form.Description, "description", "", "short description")
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Log work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := pages.NewLogWorkPage(a.client(), terminalNotifier{a.err}, userID)
			p.Form = form
			if err := p.Submit(cmd.Context()); err != nil {
				return errSilent
			}
			return a.printWorkLogs(p.Recent)
		},
	}
	addLogFlags(add)

	edit := &cobra.Command{
		Use:   "edit <workLogId>",
		Short: "Replace a work log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logID, err := parseID(args[0])
			if err != nil {
				return err
			}
			p := pages.NewUserWorkLogsPage(a.client(), terminalNotifier{a.err}, userID)
			if err := p.Update(cmd.Context(), logID, form); err != nil {
				return errSilent
			}
			return a.printWorkLogs(p.WorkLogs)
		},
	}
	addLogFlags(edit)

	del := &cobra.Command{
		Use:   "delete <workLogId>",
		Short: "Delete a work log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logID, err := parseID(args[0])
			if err != nil {
				return err
			}
			p := pages.NewUserWorkLogsPage(a.client(), terminalNotifier{a.err}, userID)
			if err := p.Delete(cmd.Context(), logID); err != nil {
				return errSilent
			}
			return a.printWorkLogs(p.WorkLogs)
		},
	}

	cmd.AddCommand(list, add, edit, del)
	return cmd
}

func newDashboardCmd(a *app) *cobra.Command {
	var admin bool
	var userID int64
	var search string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show a user's dashboard, or every log with --admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if admin {
				p := pages.NewAdminWorkLogsPage(a.client(), terminalNotifier{a.err})
				if err := p.Load(cmd.Context()); err != nil {
					return errSilent
				}
				return a.printWorkLogs(p.Filtered(search, nil, nil))
			}

			if userID <= 0 {
				return errors.New("--user is required without --admin")
			}
			p := pages.NewLogWorkPage(a.client(), terminalNotifier{a.err}, userID)
			if err := p.Refresh(cmd.Context()); err != nil {
				return errSilent
			}
			return a.printWorkLogs(p.Recent)
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "all users' work logs")
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&search, "search", "", "project name contains (with --admin)")

	return cmd
}

// errSilent fails the command after the notifier already printed why.
var errSilent = errors.New("request failed")

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (a *app) printUsers(users []user.Response) error {
	if a.asJSON {
		return a.printJSON(users)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tEMAIL\tROLE\tVERIFIED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Name, u.Email, u.Role, u.IsVerified)
	}
	return tw.Flush()
}

func (a *app) printWorkLogs(logs []worklog.Response) error {
	if a.asJSON {
		return a.printJSON(logs)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tPROJECT\tPART\tHOURS\tCREATED\tDESCRIPTION")
	for _, l := range logs {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%g\t%s\t%s\n", l.ID, l.UserID, l.ProjectName, l.ProjectPart, l.HoursWorked, l.CreatedAt, l.Description)
	}
	return tw.Flush()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
