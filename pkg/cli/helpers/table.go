package helpers

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/reconciler"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderTable writes a left-aligned table.
func RenderTable(writer io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(writer,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)

	table.Header(toAny(header)...)

	for _, row := range rows {
		err := table.Append(toAny(row)...)
		if err != nil {
			return err //nolint:wrapcheck // Rendering errors are reported as-is
		}
	}

	return table.Render() //nolint:wrapcheck // Rendering errors are reported as-is
}

// RenderRegions lists regions with their zone, address and status.
func RenderRegions(writer io.Writer, regions v1alpha1.RegionSet) error {
	rows := make([][]string, 0, len(regions))
	for _, region := range regions {
		rows = append(rows, []string{
			region.ID,
			region.Zone,
			region.DisplayName,
			orDash(region.Address),
			string(region.Status),
		})
	}

	return RenderTable(writer, []string{"Region", "Zone", "Name", "Address", "Status"}, rows)
}

// RenderAddresses lists reserved addresses sorted by region.
func RenderAddresses(writer io.Writer, addresses map[string]string) error {
	rows := make([][]string, 0, len(addresses))
	for _, region := range slices.Sorted(maps.Keys(addresses)) {
		rows = append(rows, []string{region, addresses[region]})
	}

	return RenderTable(writer, []string{"Region", "Address"}, rows)
}

// RenderPlan lists the planned operations region by region.
func RenderPlan(writer io.Writer, plan reconciler.DeploymentPlan) error {
	rows := make([][]string, 0, plan.Len())
	for _, regionPlan := range plan.Regions {
		for index, op := range regionPlan.Operations {
			change := "-"
			if op.Kind.Creates() {
				change = "+"
			}

			rows = append(rows, []string{
				regionPlan.Region.ID,
				strconv.Itoa(index + 1),
				change,
				string(op.Kind),
				orDash(op.Address),
			})
		}
	}

	return RenderTable(writer, []string{"Region", "Step", "Change", "Operation", "Address"}, rows)
}

// RenderResults lists the outcome of every region of a run.
func RenderResults(writer io.Writer, report *reconciler.Report) error {
	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		completed := make([]string, 0, len(result.Completed))
		for _, op := range result.Completed {
			completed = append(completed, string(op.Kind))
		}

		rows = append(rows, []string{
			result.Region,
			string(result.Outcome),
			orDash(strings.Join(completed, ", ")),
			orDash(result.Address),
			orDash(result.Reason()),
		})
	}

	return RenderTable(writer, []string{"Region", "Outcome", "Completed", "Address", "Reason"}, rows)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for index, value := range values {
		out[index] = value
	}

	return out
}
