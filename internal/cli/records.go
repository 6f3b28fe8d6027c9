package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"roster/internal/model"
	"roster/internal/service"
)

type recordFlags struct {
	name, id, email, contact string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "student name")
	cmd.Flags().StringVar(&f.id, "id", "", "student ID")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.contact, "contact", "", "contact number")
}

// apply overwrites form fields whose flags were given.
func (f *recordFlags) apply(cmd *cobra.Command, form service.Form) service.Form {
	if cmd.Flags().Changed("name") {
		form.StudentName = f.name
	}
	if cmd.Flags().Changed("id") {
		form.StudentID = f.id
	}
	if cmd.Flags().Changed("email") {
		form.Email = f.email
	}
	if cmd.Flags().Changed("contact") {
		form.ContactNumber = f.contact
	}
	return form
}

func NewListCommand(opts *RootOptions) *cobra.Command {
	query := service.ListQuery{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(app *App) error {
				q := query
				if q.Limit == 0 {
					q.Limit = service.MaxLimit
				}
				result, err := service.NewStudentService(app.Controller).ListStudents(cmd.Context(), q)
				if err != nil {
					return actionError("list students", err)
				}
				return opts.formatter(cmd).Print(result, func(w io.Writer) error {
					return writeTable(w, result.Data)
				})
			})
		},
	}

	cmd.Flags().StringVar(&query.StudentName, "name", "", "filter by name substring")
	cmd.Flags().StringVar(&query.SortBy, "sort-by", "", "sort field (student_name|student_id|email|contact_number)")
	cmd.Flags().StringVar(&query.SortOrder, "sort-order", "asc", "sort order (asc|desc)")
	cmd.Flags().IntVar(&query.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&query.Limit, "limit", 0, "page size (0 shows up to 100)")
	return cmd
}

func NewAddCommand(opts *RootOptions) *cobra.Command {
	flags := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(app *App) error {
				state := service.State{Mode: service.ModeAdd, Form: flags.apply(cmd, service.Form{})}
				if _, err := app.Controller.Submit(cmd.Context(), state); err != nil {
					return actionError("add student", err)
				}
				rec := state.Form.Normalize().Record()
				return opts.formatter(cmd).Print(rec, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "added student %s\n", rec.StudentID)
					return err
				})
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func NewEditCommand(opts *RootOptions) *cobra.Command {
	flags := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a student; fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(app *App) error {
				ctx := cmd.Context()
				state, err := app.Controller.Edit(ctx, service.AddState(), args[0])
				if err != nil {
					return actionError("edit student", err)
				}
				state.Form = flags.apply(cmd, state.Form)
				if _, err := app.Controller.Submit(ctx, state); err != nil {
					return actionError("edit student", err)
				}
				rec := state.Form.Normalize().Record()
				return opts.formatter(cmd).Print(rec, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "updated student %s\n", rec.StudentID)
					return err
				})
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a student (no error if absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(app *App) error {
				if _, err := app.Controller.Delete(cmd.Context(), service.AddState(), args[0]); err != nil {
					return actionError("delete student", err)
				}
				result := map[string]string{"deleted": args[0]}
				return opts.formatter(cmd).Print(result, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "deleted student %s\n", args[0])
					return err
				})
			})
		},
	}
}

func writeTable(w io.Writer, records []model.StudentRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTUDENT ID\tEMAIL\tCONTACT NUMBER")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.StudentName, r.StudentID, r.Email, r.ContactNumber)
	}
	return tw.Flush()
}
