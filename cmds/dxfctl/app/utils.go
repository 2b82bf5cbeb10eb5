package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"sigs.k8s.io/yaml"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
)

func parseHandle(arg string) (handle.Handle, error) {
	h, err := handle.Parse(arg)
	if err != nil {
		return handle.Null, fmt.Errorf("invalid object handle %q", arg)
	}
	return h, nil
}

func ResponseData(r *http.Response) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if r.StatusCode >= http.StatusOK && r.StatusCode < 300 {
		return data, nil
	}

	var msg struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &msg) == nil && msg.Error != "" {
		return nil, fmt.Errorf("%s", msg.Error)
	}
	return nil, fmt.Errorf("request failed with status %s", r.Status)
}

// PrintObjects renders a list of generic objects in the requested
// output format: a table (default), json or yaml.
func PrintObjects(w io.Writer, list []Object, output, sortField string) error {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "":
		return printObjectTable(w, list, sortField)
	case "json":
		data, err := json.Marshal(list)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", string(data))
	case "yaml":
		data, err := yaml.Marshal(list)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s", string(data))
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}

func printObjectTable(w io.Writer, list []Object, sortField string) error {
	if len(list) == 0 {
		fmt.Fprintf(w, "no objects found\n")
		return nil
	}

	columns := []string{"HANDLE", "TYPE", "OWNER"}
	sortField = strings.ToUpper(strings.TrimSpace(sortField))
	sort := -1
	if sortField != "" {
		sort = slices.Index(columns, sortField)
		if sort < 0 {
			return fmt.Errorf("unknown sort field %q", sortField)
		}
	}

	data := pterm.TableData{columns}
	rows := make([][]string, 0, len(list))
	for _, o := range list {
		rows = append(rows, []string{o.GetHandle(), o.GetType(), o.GetOwner()})
	}
	if sort >= 0 {
		slices.SortFunc(rows, func(a, b []string) int { return strings.Compare(a[sort], b[sort]) })
	}
	for _, r := range rows {
		data = append(data, r)
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}
