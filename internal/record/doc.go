// Package record defines the download unit and loads it from metadata files.
//
// A Record names one sprite: the file stem it is stored under, the category
// directory it is grouped into and the locator it is fetched from.
//
// # Input Formats
//
// The format is chosen by file extension:
//   - .csv: header row with name, category and resource columns
//   - .yaml, .yml: a list of {name, category, resource} mappings
//   - .json: the same list as JSON
//   - .html, .htm: the first <table>, header cells naming the columns
//
// Column names are matched case-insensitively. The pokedex dataset
// headers (Pokemon, Type1, Sprite) are accepted as aliases.
package record
