//go:build cgo_sqlite

package sqlite

import (
	"strings"
	"testing"

	sqliteexternal "github.com/FocuswithJustin/JuniperReports/contrib/sqlite-external"
)

func TestCGODriverFromContrib(t *testing.T) {
	if DriverName() != sqliteexternal.DriverName {
		t.Errorf("DriverName() = %s, want %s", DriverName(), sqliteexternal.DriverName)
	}
	if info := GetInfo(); !strings.HasPrefix(info.Package, sqliteexternal.DriverPackage) {
		t.Errorf("Package = %s, want prefix %s", info.Package, sqliteexternal.DriverPackage)
	}
}
