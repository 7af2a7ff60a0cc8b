// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

/*
Package query provides SQL WHERE clause construction for the database package.

Every condition is parameterized with "?" placeholders, which both DuckDB and
MySQL accept, so the same builder serves either dialect.

	wb := query.NewWhereBuilder()
	wb.AddIDs("f.film_id", []int64{3, 7})
	where, args := wb.BuildWithPrefix()
	// WHERE f.film_id IN (?, ?)

An empty IN list cannot be expressed in SQL, so AddIDs with no ids adds a
clause that matches nothing rather than dropping the filter.
*/
package query
