package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/model"
)

// Report is the structured result of a full installer scan, suitable for
// operator review or JSON export.
type Report struct {
	InstallerRoot string                                            `json:"installer_root"`
	LayoutRoot    string                                            `json:"layout_root"`
	Components    map[model.ComponentKind]*model.InstallerComponent `json:"components"`
}

// Report scans every kind and assembles a Report.
func (in *Inspector) Report() *Report {
	return &Report{
		InstallerRoot: in.installerRoot,
		LayoutRoot:    in.layoutRoot,
		Components:    in.Inspect(),
	}
}

// ToJSON renders the report as indented JSON.
func (r *Report) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal inspection report")
	}
	return append(data, '\n'), nil
}

// String renders a human-readable report, one block per detected component
// and one line per missing kind.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Installer: %s\n", r.InstallerRoot)
	fmt.Fprintf(&b, "Layout:    %s\n", r.LayoutRoot)
	for _, kind := range model.AllKinds() {
		component, ok := r.Components[kind]
		if !ok {
			fmt.Fprintf(&b, "\n%s: not found\n", kind)
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", kind)
		fmt.Fprintf(&b, "  path:    %s\n", component.Path)
		if component.Version != "" {
			fmt.Fprintf(&b, "  version: %s\n", component.Version)
		}
		fmt.Fprintf(&b, "  files:   %d\n", component.FileCount)
		fmt.Fprintf(&b, "  size:    %.2f MB\n", float64(component.TotalSize)/(1024*1024))
	}
	return b.String()
}
