// Package pkgsheet reads and writes the tabular files exchanged with operators.
//
// Two formats are supported: CSV and XLSX (first worksheet only). Everything
// is read as text. Callers decide how cells are typed.
package pkgsheet
