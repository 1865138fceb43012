// Package query answers filtered listings over a registry snapshot.
//
// Filters on sector, risk level, foreign investment status, scale tier and
// partition compose with AND. Results are always ordered by code and can be
// paged with limit and offset. Unknown filter keys are rejected with a
// ValidationError rather than ignored.
package query
