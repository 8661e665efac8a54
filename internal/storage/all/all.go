// Package all wires the built-in storage backends into the storage factory.
//
// It exists purely for side effects: importing it (even blank) runs the init
// functions of each concrete backend, which register their factories with the
// storage package. Importing this package makes the following storage kinds
// available at runtime:
//
//   - "postgres" (lyproxify/internal/storage/postgres)
//   - "sqlite"   (lyproxify/internal/storage/sqlite)
//
// A binary that only needs one backend can import that backend directly
// instead of this package.
package all

import (
	_ "lyproxify/internal/storage/postgres"
	_ "lyproxify/internal/storage/sqlite"
)
