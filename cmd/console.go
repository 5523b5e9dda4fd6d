package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"cspmconsole/client"
	"cspmconsole/config"
	"cspmconsole/grid"
	"cspmconsole/logger"
	"cspmconsole/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var consoleBaseURL string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive terminal browser for the console API",
	Long: `Starts an interactive session against a running console API server.
Log in, pick a resource, then search, filter, sort, page, and export it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := consoleBaseURL
		if baseURL == "" {
			baseURL = config.AppConfig.Client.BaseURL
		}
		if baseURL == "" {
			baseURL = "http://localhost:" + config.AppConfig.Server.Port
		}
		return runConsole(cmd.Context(), baseURL)
	},
}

func init() {
	consoleCmd.Flags().StringVar(&consoleBaseURL, "url", "", "base URL of the console API server")
	rootCmd.AddCommand(consoleCmd)
}

// resourceColumns declares the browsable grids. All run in server paging mode;
// the server owns filtering and sorting.
var resourceColumns = map[string][]grid.Column{
	"assets": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "tenants__name", Title: "Tenant", Width: 16, Searchable: true, Sortable: true},
		{Key: "name", Title: "Name", Width: 24, Searchable: true, Sortable: true},
		{Key: "resource_type", Title: "Type", Width: 10, Filterable: true, Sortable: true},
		{Key: "provider", Title: "Provider", Width: 9, Filterable: true, Sortable: true},
		{Key: "region", Title: "Region", Width: 12, Filterable: true, Sortable: true},
		{Key: "status", Title: "Status", Width: 10, Filterable: true, Sortable: true},
		{Key: "risk_score", Title: "Risk", Width: 6, Sortable: true},
	},
	"vulnerabilities": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "tenants__name", Title: "Tenant", Width: 16, Searchable: true, Sortable: true},
		{Key: "cve_id", Title: "CVE", Width: 16, Searchable: true, Sortable: true},
		{Key: "title", Title: "Title", Width: 32, Searchable: true, Sortable: true},
		{Key: "severity", Title: "Severity", Width: 10, Filterable: true, Sortable: true},
		{Key: "status", Title: "Status", Width: 14, Filterable: true, Sortable: true},
	},
	"threats": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "tenants__name", Title: "Tenant", Width: 16, Searchable: true, Sortable: true},
		{Key: "title", Title: "Title", Width: 32, Searchable: true, Sortable: true},
		{Key: "category", Title: "Category", Width: 20, Filterable: true, Sortable: true},
		{Key: "severity", Title: "Severity", Width: 10, Filterable: true, Sortable: true},
		{Key: "status", Title: "Status", Width: 14, Filterable: true, Sortable: true},
	},
	"compliance": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "tenants__name", Title: "Tenant", Width: 16, Searchable: true, Sortable: true},
		{Key: "framework", Title: "Framework", Width: 10, Filterable: true, Sortable: true},
		{Key: "control_id", Title: "Control", Width: 10, Searchable: true, Sortable: true},
		{Key: "title", Title: "Title", Width: 36, Searchable: true},
		{Key: "status", Title: "Status", Width: 14, Filterable: true, Sortable: true},
	},
	"policies": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "tenants__name", Title: "Tenant", Width: 16, Searchable: true, Sortable: true},
		{Key: "name", Title: "Name", Width: 28, Searchable: true, Sortable: true},
		{Key: "category", Title: "Category", Width: 12, Filterable: true, Sortable: true},
		{Key: "severity", Title: "Severity", Width: 10, Sortable: true},
		{Key: "enabled", Title: "Enabled", Width: 8, Filterable: true, Sortable: true},
	},
	"reports": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "tenants__name", Title: "Tenant", Width: 16, Searchable: true, Sortable: true},
		{Key: "name", Title: "Name", Width: 28, Searchable: true, Sortable: true},
		{Key: "report_type", Title: "Type", Width: 13, Filterable: true, Sortable: true},
		{Key: "status", Title: "Status", Width: 10, Filterable: true, Sortable: true},
	},
	"tenants": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "name", Title: "Name", Width: 24, Searchable: true, Sortable: true},
		{Key: "status", Title: "Status", Width: 10, Filterable: true, Sortable: true},
	},
	"users": {
		{Key: "id", Title: "ID", Width: 36, Stick: true},
		{Key: "tenants__name", Title: "Tenant", Width: 16, Searchable: true, Sortable: true},
		{Key: "email", Title: "Email", Width: 28, Searchable: true, Sortable: true},
		{Key: "name", Title: "Name", Width: 20, Searchable: true, Sortable: true},
		{Key: "status", Title: "Status", Width: 10, Filterable: true, Sortable: true},
	},
}

type consoleApp struct {
	api      *client.Client
	store    *session.Store
	resource string
	grid     *grid.Controller
	lastErr  string
}

func runConsole(ctx context.Context, baseURL string) error {
	api := client.New(baseURL)
	in := bufio.NewScanner(os.Stdin)

	email, password, err := promptCredentials(in)
	if err != nil {
		return err
	}
	user, err := api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	color.Green("Logged in as %s", user.Email)

	store := session.NewStore(session.NewFileStorage(config.AppConfig.Client.StatePath))
	stopWatch := store.Watch(2 * time.Second)
	defer stopWatch()

	bootErr := session.Bootstrap(ctx, store, api, session.BootstrapOptions{
		TenantRetries:   config.AppConfig.Client.TenantFetchRetries,
		TenantRetryWait: time.Duration(config.AppConfig.Client.TenantFetchRetryDelayMS) * time.Millisecond,
	})
	if bootErr != nil {
		logger.Warn("Console: bootstrap incomplete: %v", bootErr)
	}
	state := store.State()
	if state.SelectedTenant != nil {
		color.Cyan("Tenant: %s  (%d unread notifications)", state.SelectedTenant.Name, state.UnreadCount())
	}

	app := &consoleApp{api: api, store: store}
	if err := app.open(ctx, "assets"); err != nil {
		return err
	}

	fmt.Println(`Commands: open <resource> | search <col> <text> | filter <col> <value> | sort <col>
          page <n> | pagesize <n> | export <xlsx|pdf|csv> | tenants | notifications | quit`)
	for {
		color.New(color.FgHiBlue).Printf("%s> ", app.resource)
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmdName, rest := fields[0], fields[1:]

		switch cmdName {
		case "quit", "exit":
			resp := api.Logout(ctx)
			store.Dispatch(session.Action{Type: session.Logout})
			if resp.SSO {
				fmt.Println("SSO logout:", resp.RedirectURL)
			}
			return nil
		case "open":
			if len(rest) != 1 {
				color.Yellow("usage: open <resource>")
				continue
			}
			if err := app.open(ctx, rest[0]); err != nil {
				color.Red("%v", err)
			}
		case "search":
			if len(rest) < 2 {
				color.Yellow("usage: search <col> <text>")
				continue
			}
			app.grid.SetSearch(rest[0], strings.Join(rest[1:], " "))
		case "filter":
			if len(rest) == 1 {
				app.grid.SetFilter(rest[0], "")
			} else if len(rest) == 2 {
				app.grid.SetFilter(rest[0], rest[1])
			} else {
				color.Yellow("usage: filter <col> [value]")
				continue
			}
		case "sort":
			if len(rest) != 1 {
				color.Yellow("usage: sort <col>")
				continue
			}
			app.grid.SetSort(rest[0])
		case "page":
			if len(rest) != 1 {
				color.Yellow("usage: page <n>")
				continue
			}
			app.grid.GoToPage(rest[0])
		case "pagesize":
			if len(rest) != 1 {
				color.Yellow("usage: pagesize <n>")
				continue
			}
			if n, err := strconv.Atoi(rest[0]); err == nil {
				app.grid.SetPageSize(n)
			}
		case "export":
			doctype := "xlsx"
			if len(rest) == 1 {
				doctype = rest[0]
			}
			app.export(ctx, doctype)
		case "tenants":
			app.printTenants()
		case "notifications":
			app.printNotifications()
		default:
			color.Yellow("unknown command %q", cmdName)
		}
	}
	return nil
}

func promptCredentials(in *bufio.Scanner) (string, string, error) {
	fmt.Print("Email: ")
	if !in.Scan() {
		return "", "", fmt.Errorf("aborted")
	}
	email := strings.TrimSpace(in.Text())
	fmt.Print("Password: ")
	if !in.Scan() {
		return "", "", fmt.Errorf("aborted")
	}
	return email, strings.TrimSpace(in.Text()), nil
}

// open switches the browsed resource, wiring grid change events to API
// refetches.
func (a *consoleApp) open(ctx context.Context, resource string) error {
	columns, ok := resourceColumns[resource]
	if !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}

	g, err := grid.New(columns,
		grid.WithServerPaging(),
		grid.WithNoDataText("no rows"),
		grid.WithListener(func(state grid.QueryState) {
			a.refetch(ctx, state)
			a.render()
		}),
	)
	if err != nil {
		return err
	}
	a.resource = resource
	a.grid = g

	a.refetch(ctx, g.State())
	a.render()
	return nil
}

func (a *consoleApp) refetch(ctx context.Context, state grid.QueryState) {
	a.lastErr = ""
	result := a.api.Fetch(ctx, a.queryURL(state), client.FetchOptions{Force: true})
	if result.LogOut {
		a.store.Dispatch(session.Action{Type: session.Logout})
		a.lastErr = "session expired; please restart and log in again"
		a.grid.SetServerData(nil, 0)
		return
	}
	if !result.Success {
		a.lastErr = result.Message
		a.grid.SetServerData(nil, 0)
		return
	}

	var rows []grid.Row
	if err := json.Unmarshal(result.Data, &rows); err != nil {
		a.lastErr = "could not decode rows: " + err.Error()
		a.grid.SetServerData(nil, 0)
		return
	}
	total := len(rows)
	if result.Pagination != nil {
		total = result.Pagination.Total
	}
	a.grid.SetServerData(rows, total)
}

func (a *consoleApp) queryURL(state grid.QueryState) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(state.Page))
	q.Set("pageSize", strconv.Itoa(state.PageSize))
	for key, term := range state.SearchFilters {
		q.Set(key+"_search", term)
	}
	for key, value := range state.FilterValues {
		q.Set(key, value)
	}
	if state.Sort.By != "" && state.Sort.Order != "" {
		q.Set("sort_by", state.Sort.By)
		q.Set("order", state.Sort.Order)
	}
	return "/api/" + a.resource + "?" + q.Encode()
}

func (a *consoleApp) render() {
	if a.lastErr != "" {
		color.Red("error: %s", a.lastErr)
		return
	}

	rows := a.grid.Rows()
	if text, empty := a.grid.NoData(); empty {
		color.Yellow(text)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	header := make([]string, 0, len(a.grid.Columns()))
	for _, col := range a.grid.Columns() {
		title := col.Title
		if s := a.grid.State().Sort; s.By == col.Key {
			if s.Order == "asc" {
				title += " ^"
			} else if s.Order == "desc" {
				title += " v"
			}
		}
		header = append(header, title)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range rows {
		cells := make([]string, 0, len(a.grid.Columns()))
		for _, col := range a.grid.Columns() {
			cells = append(cells, clip(col.CellText(row), col.Width))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	color.Cyan("page %d/%d  (%d rows total)", a.grid.State().Page, a.grid.TotalPages(), a.grid.Total())
}

func (a *consoleApp) export(ctx context.Context, doctype string) {
	state := a.grid.State()
	exportURL := "/api/" + a.resource + "/export?" + func() string {
		q := url.Values{}
		q.Set("doctype", doctype)
		for key, term := range state.SearchFilters {
			q.Set(key+"_search", term)
		}
		for key, value := range state.FilterValues {
			q.Set(key, value)
		}
		if state.Sort.By != "" && state.Sort.Order != "" {
			q.Set("sort_by", state.Sort.By)
			q.Set("order", state.Sort.Order)
		}
		return q.Encode()
	}()

	path, err := a.api.DownloadExport(ctx, exportURL, ".", a.resource, doctype, func(written, total int64) {
		if total > 0 {
			fmt.Printf("\rdownloading... %d%%", written*100/total)
		}
	})
	fmt.Println()
	if err != nil {
		color.Red("%v", err)
		return
	}
	color.Green("saved %s", path)
}

func (a *consoleApp) printTenants() {
	state := a.store.State()
	for _, t := range state.Tenants.Data {
		marker := " "
		if state.SelectedTenant != nil && state.SelectedTenant.ID == t.ID {
			marker = "*"
		}
		fmt.Printf("%s %s  %s (%s)\n", marker, t.ID, t.Name, t.Status)
	}
}

func (a *consoleApp) printNotifications() {
	state := a.store.State()
	if len(state.Notifications) == 0 {
		color.Yellow("no notifications")
		return
	}
	for _, n := range state.Notifications {
		flag := " "
		if !n.IsRead {
			flag = "*"
		}
		fmt.Printf("%s [%s] %s - %s\n", flag, n.Severity, n.Title, n.Message)
	}
}

func clip(s string, width int) string {
	if width > 3 && len(s) > width {
		return s[:width-3] + "..."
	}
	return s
}
