// Package sqliteexternal registers the CGO SQLite driver
// (github.com/mattn/go-sqlite3) for builds that want it.
//
// Import it for its side effect and build with the cgo_sqlite tag:
//
//	import _ "github.com/FocuswithJustin/JuniperReports/contrib/sqlite-external"
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/juniper-report
//
// Without the tag, core/sqlite uses modernc.org/sqlite and the binary needs
// no C toolchain. Report databases written by either driver are identical.
package sqliteexternal
