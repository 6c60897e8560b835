package rmeconv

import (
	"fmt"
	"os"

	"github.com/kpango/glg"
)

// Params holds the tunables of a single conversion.
type Params struct {
	// OverwriteORM replaces an existing ORM result instead of keeping it.
	OverwriteORM bool

	// RoughnessBias and RoughnessMult remap the roughness channel as
	// bias + mult*value before clamping.
	RoughnessBias float32
	RoughnessMult float32

	// MetallicBias and MetallicMult remap the metallic channel the same way.
	MetallicBias float32
	MetallicMult float32

	// OverwriteEmission replaces an existing emission result instead of
	// keeping it.
	OverwriteEmission bool

	// NormalizeEmission boosts dim emission textures toward a usable
	// brightness, see ComposeEmission.
	NormalizeEmission bool
}

// DefaultParams returns identity channel remaps with overwriting and
// normalization disabled.
func DefaultParams() Params {
	return Params{
		RoughnessMult: 1,
		MetallicMult:  1,
	}
}

// Outcome reports which result files a conversion produced.
type Outcome struct {
	ORMWritten      bool
	EmissionWritten bool
}

// NoOp reports whether the conversion produced no files at all.
func (o Outcome) NoOp() bool {
	return !o.ORMWritten && !o.EmissionWritten
}

// Convert turns one RME texture into an ORM texture at ormOutPath and an
// emission texture at emisOutPath. Existing results are kept unless the
// matching overwrite parameter is set. A missing albedo only disables the
// emission texture, a missing RME file is an error.
//
// Calls are independent and share no state, each one touches only its own
// four paths.
func Convert(albedoPath, rmePath, ormOutPath, emisOutPath string, p Params) (Outcome, error) {
	var out Outcome

	wantORM, err := prepareTarget(ormOutPath, p.OverwriteORM)
	if err != nil {
		return out, err
	}

	wantEmission, err := prepareTarget(emisOutPath, p.OverwriteEmission)
	if err != nil {
		return out, err
	}

	if !fileExists(albedoPath) {
		glg.Warnf("no albedo file, no emission texture will be produced for %s", rmePath)

		wantEmission = false
	}

	if !wantORM && !wantEmission {
		return out, nil
	}

	rme, err := loadRME(rmePath)
	if err != nil {
		return out, err
	}

	albedo := NewImage(rme.H, rme.W, 4)
	if wantEmission {
		albedo, err = DecodeFile(albedoPath)
		if err != nil {
			return out, fmt.Errorf("load albedo %s: %w", albedoPath, err)
		}
	}

	if wantORM {
		orm, err := PackORM(rme, p.RoughnessBias, p.RoughnessMult, p.MetallicBias, p.MetallicMult)
		if err != nil {
			return out, err
		}

		if err := EncodeFile(ormOutPath, orm); err != nil {
			return out, fmt.Errorf("write %s: %w", ormOutPath, err)
		}

		out.ORMWritten = true
	}

	if wantEmission {
		emis, err := ComposeEmission(albedo, rme, p.NormalizeEmission)
		if err != nil {
			return out, err
		}

		if err := EncodeFile(emisOutPath, emis); err != nil {
			return out, fmt.Errorf("write %s: %w", emisOutPath, err)
		}

		out.EmissionWritten = true
	}

	return out, nil
}

// prepareTarget reports whether a result file should be produced. An existing
// file is removed when overwrite is set and kept otherwise.
func prepareTarget(path string, overwrite bool) (bool, error) {
	if !fileExists(path) {
		return true, nil
	}

	if !overwrite {
		glg.Infof("result file already exists, ignoring: %s", path)

		return false, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}

	return true, nil
}

func loadRME(path string) (*Image, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}

	m, err := DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("load RME %s: %w", path, err)
	}

	return m, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
