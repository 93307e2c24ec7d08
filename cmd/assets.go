package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"solarops/internal/app"
	"solarops/internal/cli"
	"solarops/pkg/solar"
)

// newAssetCmd creates the asset inventory command group.
func newAssetCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Browse the monitored plant hierarchy",
		Long: `Inspect the plant asset hierarchy along with the locations, equipment
templates and stock inventory backing it.`,
	}
	cli.RegisterCommonFlags(cmd, flags)

	cmd.AddCommand(newAssetListCmd(flags))
	cmd.AddCommand(newAssetGetCmd(flags))
	cmd.AddCommand(newAssetCreateCmd(flags))
	cmd.AddCommand(newAssetDeleteCmd(flags))
	cmd.AddCommand(newAssetTreeCmd(flags))
	cmd.AddCommand(newAssetAncestorsCmd(flags))
	cmd.AddCommand(newAssetItemsCmd(flags))
	cmd.AddCommand(newAssetSensorsCmd(flags))
	cmd.AddCommand(newLocationCmd(flags))
	cmd.AddCommand(newTemplateCmd(flags))
	cmd.AddCommand(newInventoryCmd(flags))
	return cmd
}

// assetApp builds the app and checks the asset-management permission.
func assetApp(cmd *cobra.Command, flags *cli.CommandFlags) (*app.App, error) {
	a, _, err := buildApp(flags)
	if err != nil {
		return nil, err
	}
	if err := requirePermission(cmd.Context(), a, solar.PermissionManageAssets); err != nil {
		a.Stop()
		return nil, err
	}
	return a, nil
}

func parseAssetID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}

func registerListFlags(cmd *cobra.Command, params *solar.ListParams) {
	cmd.Flags().IntVar(&params.Skip, "skip", 0, "Number of results to skip")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Maximum number of results")
	cmd.Flags().StringVar(&params.Search, "search", "", "Search by name or code")
}

func assetRow(a solar.Asset, wide bool) []string {
	row := []string{
		strconv.Itoa(a.ID),
		a.Name,
		a.Code,
		cli.TitleCase(string(a.AssetType)),
		cli.TitleCase(string(a.Status)),
	}
	if wide {
		parent := "-"
		if a.ParentID != nil {
			parent = strconv.Itoa(*a.ParentID)
		}
		location := "-"
		if a.Location != nil {
			location = a.Location.Name
		} else if a.LocationID != nil {
			location = strconv.Itoa(*a.LocationID)
		}
		row = append(row, parent, location, a.UUID)
	}
	return row
}

func assetHeaders(wide bool) []string {
	headers := []string{"id", "name", "code", "type", "status"}
	if wide {
		headers = append(headers, "parent", "location", "uuid")
	}
	return headers
}

func printAssetPage(printer *cli.Printer, page *solar.Paginated[solar.Asset]) error {
	if !printer.IsTable() {
		return printer.PrintStructured(page)
	}
	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, assetRow(item, printer.Wide()))
	}
	printer.PrintTable(assetHeaders(printer.Wide()), rows)
	return nil
}

func newAssetListCmd(flags *cli.CommandFlags) *cobra.Command {
	var params solar.ListParams
	var assetType, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			params.AssetType = solar.AssetType(assetType)
			params.Status = solar.AssetStatus(status)

			var page *solar.Paginated[solar.Asset]
			err = cli.WithSpinner(flags.Quiet, "Fetching assets...", func() error {
				var listErr error
				page, listErr = h.Assets.List(cmd.Context(), params)
				return listErr
			})
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			return printAssetPage(printer, page)
		},
	}

	registerListFlags(cmd, &params)
	cmd.Flags().StringVar(&assetType, "type", "", "Filter by asset type")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&params.LocationID, "location", 0, "Filter by location ID")
	cmd.Flags().IntVar(&params.ParentID, "parent", 0, "Filter by parent asset ID")
	cmd.Flags().IntVar(&params.TemplateID, "template", 0, "Filter by template ID")
	return cmd
}

func newAssetGetCmd(flags *cli.CommandFlags) *cobra.Command {
	var byUUID bool

	cmd := &cobra.Command{
		Use:   "get <id|uuid>",
		Short: "Show a single asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			var asset *solar.Asset
			if byUUID {
				asset, err = h.Assets.GetByUUID(cmd.Context(), args[0])
			} else {
				var id int
				if id, err = parseAssetID(args[0]); err != nil {
					return err
				}
				asset, err = h.Assets.Get(cmd.Context(), id)
			}
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(asset)
			}
			printer.PrintTable(assetHeaders(true), [][]string{assetRow(*asset, true)})
			return nil
		},
	}

	cmd.Flags().BoolVar(&byUUID, "uuid", false, "Look the asset up by UUID instead of ID")
	return cmd
}

func newAssetCreateCmd(flags *cli.CommandFlags) *cobra.Command {
	var body solar.AssetCreate
	var assetType, status string
	var parentID, locationID int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if body.Name == "" || body.Code == "" || body.TemplateID == 0 || assetType == "" {
				return fmt.Errorf("--name, --code, --template and --type are required")
			}

			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			body.AssetType = solar.AssetType(assetType)
			body.Status = solar.AssetStatus(status)
			if parentID > 0 {
				body.ParentID = &parentID
			}
			if locationID > 0 {
				body.LocationID = &locationID
			}
			if body.Config == nil {
				body.Config = map[string]any{}
			}

			asset, err := h.Assets.Create(cmd.Context(), body)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created asset %s (ID %d)", asset.Name, asset.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&body.Name, "name", "", "Asset name")
	cmd.Flags().StringVar(&body.Code, "code", "", "Asset code")
	cmd.Flags().IntVar(&body.TemplateID, "template", 0, "Template ID the asset instantiates")
	cmd.Flags().StringVar(&assetType, "type", "", "Asset type (plant, sub_plant, inverter, string, panel, sensor)")
	cmd.Flags().StringVar(&status, "status", string(solar.AssetActive), "Initial status")
	cmd.Flags().IntVar(&parentID, "parent", 0, "Parent asset ID")
	cmd.Flags().IntVar(&locationID, "location", 0, "Location ID")
	cmd.Flags().StringVar(&body.RealtimeDataTag, "realtime-tag", "", "Realtime data tag")
	return cmd
}

func newAssetDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			if err := h.Assets.Delete(cmd.Context(), id); err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted asset %d", id)))
			return nil
		},
	}
}

func newAssetTreeCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <id>",
		Short: "Show the subtree rooted at an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one asset ID")
			}
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			tree, err := h.Assets.Hierarchy(cmd.Context(), id)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(tree)
			}

			fmt.Println(cli.FormatHeading(fmt.Sprintf("%s (%s)", tree.Asset.Name, tree.Asset.Code)))
			printAssetBranch(tree.Children, "")
			return nil
		},
	}
}

// printAssetBranch renders one level of the hierarchy with indentation.
func printAssetBranch(children []solar.Asset, indent string) {
	for i, child := range children {
		connector := "├─"
		next := indent + "│  "
		if i == len(children)-1 {
			connector = "└─"
			next = indent + "   "
		}
		fmt.Printf("%s%s %s (%s, %s)\n", indent, connector, child.Name, child.Code, cli.TitleCase(string(child.AssetType)))
		printAssetBranch(child.Children, next)
	}
}

func newAssetAncestorsCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors <id>",
		Short: "Show the chain from an asset up to its plant root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			chain, err := h.Assets.Ancestors(cmd.Context(), id)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(chain)
			}

			rows := make([][]string, 0, len(chain.Ancestors)+1)
			for i := len(chain.Ancestors) - 1; i >= 0; i-- {
				rows = append(rows, assetRow(chain.Ancestors[i], printer.Wide()))
			}
			rows = append(rows, assetRow(chain.Asset, printer.Wide()))
			printer.PrintTable(assetHeaders(printer.Wide()), rows)
			return nil
		},
	}
}

func newAssetItemsCmd(flags *cli.CommandFlags) *cobra.Command {
	var params solar.ListParams

	cmd := &cobra.Command{
		Use:   "items <id>",
		Short: "List the physical items deployed into an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			page, err := h.Assets.Items(cmd.Context(), id, params)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(page)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, item := range page.Items {
				rows = append(rows, []string{
					strconv.Itoa(item.ID),
					item.Name,
					item.Code,
					cli.TitleCase(string(item.Status)),
					strconv.Itoa(item.TemplateID),
				})
			}
			printer.PrintTable([]string{"id", "name", "code", "status", "template"}, rows)
			return nil
		},
	}

	registerListFlags(cmd, &params)
	return cmd
}

func newAssetSensorsCmd(flags *cli.CommandFlags) *cobra.Command {
	var params solar.ListParams

	cmd := &cobra.Command{
		Use:   "sensors <id>",
		Short: "List the measurement channels attached to an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			page, err := h.Assets.Sensors(cmd.Context(), id, params)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(page)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, s := range page.Items {
				rows = append(rows, []string{
					strconv.Itoa(s.ID),
					s.Name,
					s.Code,
					s.SensorType,
					cli.Dash(s.Unit),
					s.DataType,
				})
			}
			printer.PrintTable([]string{"id", "name", "code", "type", "unit", "data type"}, rows)
			return nil
		},
	}

	registerListFlags(cmd, &params)
	return cmd
}

func newLocationCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage physical locations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			page, err := h.Assets.ListLocations(cmd.Context(), solar.ListParams{})
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(page)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, loc := range page.Items {
				rows = append(rows, []string{
					strconv.Itoa(loc.ID),
					loc.Name,
					loc.Code,
					cli.Dash(cli.Truncate(loc.Description, 50)),
				})
			}
			printer.PrintTable([]string{"id", "name", "code", "description"}, rows)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			loc, err := h.Assets.GetLocation(cmd.Context(), id)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}
			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(loc)
			}
			fmt.Println(cli.FormatHeading(loc.Name))
			fmt.Println(cli.Bullet("Code", loc.Code))
			fmt.Println(cli.Bullet("Description", cli.Dash(loc.Description)))
			fmt.Println(cli.Bullet("Created", cli.FormatTime(loc.CreatedAt)))
			return nil
		},
	}

	var create solar.LocationCreate
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if create.Name == "" || create.Code == "" {
				return fmt.Errorf("--name and --code are required")
			}
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			loc, err := h.Assets.CreateLocation(cmd.Context(), create)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created location %s (ID %d)", loc.Name, loc.ID)))
			return nil
		},
	}
	createCmd.Flags().StringVar(&create.Name, "name", "", "Location name")
	createCmd.Flags().StringVar(&create.Code, "code", "", "Location code")
	createCmd.Flags().StringVar(&create.Description, "description", "", "Description")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			if err := h.Assets.DeleteLocation(cmd.Context(), id); err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted location %d", id)))
			return nil
		},
	}

	cmd.AddCommand(list, get, createCmd, del)
	return cmd
}

func newTemplateCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage equipment templates",
	}

	var params solar.ListParams
	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			params.Category = solar.TemplateCategory(category)
			page, err := h.Assets.ListTemplates(cmd.Context(), params)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(page)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, t := range page.Items {
				rows = append(rows, []string{
					strconv.Itoa(t.ID),
					t.Name,
					t.Code,
					cli.TitleCase(string(t.AssetType)),
					cli.TitleCase(string(t.Category)),
					cli.Dash(t.Manufacturer),
				})
			}
			printer.PrintTable([]string{"id", "name", "code", "type", "category", "manufacturer"}, rows)
			return nil
		},
	}
	registerListFlags(list, &params)
	list.Flags().StringVar(&category, "category", "", "Filter by category")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			tmpl, err := h.Assets.GetTemplate(cmd.Context(), id)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}
			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(tmpl)
			}
			fmt.Println(cli.FormatHeading(tmpl.Name))
			fmt.Println(cli.Bullet("Code", tmpl.Code))
			fmt.Println(cli.Bullet("Type", cli.TitleCase(string(tmpl.AssetType))))
			fmt.Println(cli.Bullet("Category", cli.TitleCase(string(tmpl.Category))))
			fmt.Println(cli.Bullet("Manufacturer", cli.Dash(tmpl.Manufacturer)))
			fmt.Println(cli.Bullet("Model", cli.Dash(tmpl.ModelNumber)))
			return nil
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newInventoryCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Manage stock inventory",
	}

	var params solar.ListParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List stock entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			page, err := h.Assets.ListInventory(cmd.Context(), params)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}

			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			if !printer.IsTable() {
				return printer.PrintStructured(page)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, inv := range page.Items {
				template := strconv.Itoa(inv.TemplateID)
				if inv.Template != nil {
					template = inv.Template.Name
				}
				rows = append(rows, []string{
					strconv.Itoa(inv.ID),
					template,
					strconv.Itoa(inv.Quantity),
					strconv.Itoa(inv.AvailableQuantity),
					strconv.Itoa(inv.ReservedQuantity),
					cli.Dash(inv.BatchNumber),
				})
			}
			printer.PrintTable([]string{"id", "template", "quantity", "available", "reserved", "batch"}, rows)
			return nil
		},
	}
	registerListFlags(list, &params)
	list.Flags().IntVar(&params.LocationID, "location", 0, "Filter by location ID")
	list.Flags().IntVar(&params.TemplateID, "template", 0, "Filter by template ID")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stock entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			h, err := assetApp(cmd, flags)
			if err != nil {
				return err
			}
			defer h.Stop()

			inv, err := h.Assets.GetInventory(cmd.Context(), id)
			if err != nil {
				return wrapRemoteError(err, h.Config.Endpoint)
			}
			printer, err := flags.Printer(os.Stdout)
			if err != nil {
				return err
			}
			return printer.PrintStructured(inv)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
