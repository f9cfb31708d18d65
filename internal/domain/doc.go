// Package domain models river water-level readings and their hydrological
// risk classification.
//
// # Data Source
//
// The system of record is a shared Google Sheets spreadsheet maintained by the
// regional civil defense coordination. It exposes three tabs, read as CSV
// snapshots:
//
//	rios        → {id_rio, nome_rio}
//	municipios  → {id_rio, id_municipio, nome_municipio, nivel_transbordo, fonte}
//	leituras    → {id_rio, id_municipio, data, hora, nivel}
//
// New readings are appended externally through a Google Form; this package
// only reads and ranks them, never mutates them.
//
// # Value Conventions
//
// Numeric values arrive as locale-formatted strings and may use either "." or
// "," as the decimal separator ("350,5" = 350.5). Malformed or empty values
// degrade to a missing state rather than failing the dataset; see
// [ParseNumeric].
//
// Dates are "YYYY-MM-DD" and times "HH:MM", both kept as strings. Both
// formats sort correctly under plain lexicographic comparison, which is what
// reading order relies on. Readings with identical (date, time) are legitimate
// duplicates; ranking uses a stable sort, so ties keep their source order.
// Which tied reading counts as "latest" is therefore decided by the
// spreadsheet row order, not by this package.
//
// # Risk Classification
//
// Each municipality carries an overflow threshold (cota de transbordo), the
// river level at which overflow risk begins. A reading is classified by its
// percentage of that threshold, first match wins:
//
//	perc < 85    → Normal   (green)
//	perc < 100   → Alert    (orange)
//	perc <= 120  → Overflow (red)
//	perc > 120   → Extreme hydrological risk (purple)
//
// A missing or unparsable level classifies as "Invalid reading" and a missing
// or non-positive threshold as "No threshold defined", both gray. The cut
// points and their inclusivity drive the color coding of every display
// surface (report table, history rows, exports), so they must not drift.
package domain
