// Package board loads board descriptor files. Every optional field is
// resolved to a concrete value here, at construction: consumers downstream
// never branch on "auto" placeholders or missing fields.
package board

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dapperfu/s32pack/pkg/errors"
	"github.com/dapperfu/s32pack/pkg/model"
)

// LinkerTypeFlash links the image into flash, the default for these boards.
const LinkerTypeFlash = "flash"

// LinkerTypeRAM links the image into RAM for debug runs.
const LinkerTypeRAM = "ram"

// manifest is the on-disk descriptor shape. Optional fields stay pointers or
// empty so defaults can be told apart from explicit values.
type manifest struct {
	Name            string `json:"name"`
	MCU             string `json:"mcu"`
	Core            string `json:"core"`
	VLE             *bool  `json:"vle"`
	LinkerScript    string `json:"linker_script"`
	LinkerType      string `json:"linker_type"`
	StartupTemplate string `json:"startup_template"`
}

// Load reads a board descriptor file and resolves its defaults.
func Load(path string) (*model.BoardDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read board descriptor %s", path)
	}
	descriptor, err := FromJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "board descriptor %s", path)
	}
	return descriptor, nil
}

// FromJSON parses a board descriptor and resolves its defaults: the core
// falls back to e200z4, the instruction-set mode to VLE, and a missing or
// "auto" linker script derives from the MCU name and linker type.
func FromJSON(data []byte) (*model.BoardDescriptor, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(errors.ErrConfigParse, "%v", err)
	}

	if m.MCU == "" {
		return nil, errors.Wrap(errors.ErrConfigValidation, "board descriptor has no mcu")
	}
	m.MCU = strings.ToLower(m.MCU)

	core := model.CoreZ4
	if m.Core != "" {
		core = model.CoreVariant(m.Core)
		if !model.ValidCore(core) {
			return nil, errors.Wrapf(errors.ErrUnknownCoreVariant, "%q", m.Core)
		}
	}

	vle := true
	if m.VLE != nil {
		vle = *m.VLE
	}

	linkerType := m.LinkerType
	switch linkerType {
	case "":
		linkerType = LinkerTypeFlash
	case LinkerTypeFlash, LinkerTypeRAM:
	default:
		return nil, errors.Wrapf(errors.ErrConfigValidation, "unknown linker type %q", m.LinkerType)
	}

	linkerScript := m.LinkerScript
	if linkerScript == "" || linkerScript == "auto" {
		linkerScript = fmt.Sprintf("%s_%s.ld", m.MCU, linkerType)
	}

	name := m.Name
	if name == "" {
		name = m.MCU
	}

	return &model.BoardDescriptor{
		Name:            name,
		MCU:             m.MCU,
		Core:            core,
		VLE:             vle,
		LinkerScript:    linkerScript,
		StartupTemplate: m.StartupTemplate,
	}, nil
}
