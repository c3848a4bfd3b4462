// Package catalog persists title records in SQLite using a normalized
// relational schema and reconstructs denormalized records on read.
//
// The Store owns one live database connection. Shared entities (people,
// genres, countries) are deduplicated by exact name at write time and may
// outlive the title that first created them. Every write operation is a
// single transaction: either the title row and all of its junction rows
// commit together, or none of them are observable.
//
// Name matching is case-sensitive for shared entities: two spellings
// differing only by case produce distinct rows. Title lookup by name and
// substring search are case-insensitive, matching the lookup source's
// behavior.
package catalog
