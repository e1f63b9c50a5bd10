// bootstrap/persist.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bootstrap

import (
	"fmt"
	"io"

	"github.com/mmp/lowry/util"
)

// PlateFileVersion is stored with saved plates; LoadPlate rejects other
// versions.
const PlateFileVersion = 1

type plateFile struct {
	Version int   `msgpack:"version"`
	Plate   Plate `msgpack:"plate"`
}

// SavePlate writes the plate to w as zstd-compressed msgpack.
func SavePlate(w io.Writer, p Plate) error {
	return util.EncodeObject(w, plateFile{Version: PlateFileVersion, Plate: p})
}

// LoadPlate reads a plate written by SavePlate.
func LoadPlate(r io.Reader) (Plate, error) {
	var f plateFile
	if err := util.DecodeObject(r, &f); err != nil {
		return Plate{}, err
	}
	if f.Version != PlateFileVersion {
		return Plate{}, fmt.Errorf("plate file version %d; expected %d", f.Version, PlateFileVersion)
	}
	return f.Plate, nil
}

// SavePlateFile writes the plate to the named file.
func SavePlateFile(path string, p Plate) error {
	return util.StoreObject(path, plateFile{Version: PlateFileVersion, Plate: p})
}

// LoadPlateFile reads a plate from the named file.
func LoadPlateFile(path string) (Plate, error) {
	var f plateFile
	if _, err := util.RetrieveObject(path, &f); err != nil {
		return Plate{}, fmt.Errorf("%s: %w", path, err)
	}
	if f.Version != PlateFileVersion {
		return Plate{}, fmt.Errorf("%s: plate file version %d; expected %d", path, f.Version, PlateFileVersion)
	}
	return f.Plate, nil
}
