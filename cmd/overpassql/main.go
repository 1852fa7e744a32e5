// Command overpassql compiles Overpass QL queries into SQL statements and
// can verify the generated SQL against a live PostGIS database.
package main

func main() {
	Execute()
}
