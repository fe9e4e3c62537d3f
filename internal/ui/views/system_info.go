package views

import "github.com/pterm/pterm"

type SystemInfoItem struct {
	ConfigPath      string
	Driver          string
	DBLocation      string
	DBExists        bool // only meaningful for sqlite
	DefaultCurrency string
	RateSource      string
	CurrentRate     string
	Identity        string
	AppDataDir      string
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}
	if data.Driver != "sqlite" {
		dbStatus = pterm.Gray("n/a")
	}

	identity := data.Identity
	if identity == "" {
		identity = pterm.Gray("(none, use --as)")
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Database Driver", data.Driver},
		{"Database", data.DBLocation},
		{"Database Status", dbStatus},
		{"Default Currency", data.DefaultCurrency},
		{"Exchange Rate Source", data.RateSource},
		{"USD to EUR", data.CurrentRate},
		{"Acting User", identity},
		{"AppData Directory", data.AppDataDir},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
