// Package domain models daily barrage inflow records and the flood analysis
// derived from them.
//
// # Data Source
//
// Inflow records come from a flood-forecasting workbook with one sheet of
// daily observations (historically the "Selected" sheet). Each row carries a
// date, an inflow figure and, usually, the name of the barrage it was measured
// at. Header spellings vary between workbooks ("Date", "Inflow (cusecs)",
// "Barrage"), so headers are resolved against a fixed table, see
// [ResolveColumns].
//
// # Data Conventions
//
// Dates:
//
//	Workbooks store dates as Excel serial numbers (days since 1899-12-30,
//	e.g. 41888 = 2014-09-06). Serials before 1910-01-01 are rejected, so a
//	bare year such as "2022" fails instead of landing in 1905. Text dates are also accepted in ISO form
//	("2014-09-06") and a few day-first and month-first layouts, see [ParseDate].
//	Time-of-day is discarded; a record belongs to one calendar day.
//
// Inflow:
//
//	Cusecs (cubic feet per second). Blank, non-numeric, NaN and infinite cells
//	are recorded as 0 without reporting an error.
//
// Structure:
//
//	Barrage name, trimmed. Workbooks without a structure column, and blank
//	cells, are attributed to "Unknown".
//
// # Flood Periods
//
// A [FloodCalendar] lists at most one flood window per year. A record whose
// date falls inside its year's window (inclusive on both ends) is labeled
// "{year} Flood", every other record is "Normal". The years present in the
// calendar are the flood years. The built-in calendar covers 2014
// (2014-09-06..2014-09-16), 2022 and 2023 (both 07-15..08-15); the 2022 and
// 2023 windows are approximate and can be replaced by configuration.
//
// # Ordering
//
// A [Table] is always sorted by (structure, date) ascending, with ties kept in
// source order.
package domain
