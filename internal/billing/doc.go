// Package billing tracks the café's rooms and consoles. Each device keeps its
// usage settings, an hourly price and a timer made of an accumulated duration
// plus the instant it was last started. Cost is always derived from those, so
// the UI can redraw on any schedule without drifting. Settling a stopped
// device produces a Session that feeds the daily report.
package billing
