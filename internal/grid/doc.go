// Package grid implements the data-processing core of the data grid.
//
// Rows flow through three pure stages before they are shown:
//   - Filter: keep rows where any column's value contains the search term
//     (case-folded substring match)
//   - Sort: stable sort by one field with null-aware, type-aware comparison
//   - Paginate: slice the sorted rows into a fixed-size window
//
// Selection is tracked by row key, not by row position, so it survives
// filtering, sorting and paging. A selected key whose row is no longer in
// the dataset stays in the set until the owner clears it.
//
// All state lives in one State value. Reduce applies an Event to a State and
// reports which notifications are due; Controller sequences the pipeline
// around it, fires the configured callbacks and builds the View handed to the
// presentation layer. Everything runs synchronously on the caller's
// goroutine; a Controller must not be shared between goroutines.
package grid
