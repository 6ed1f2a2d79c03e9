// Package notify delivers outbound notifications to account holders.
// Delivery happens on the background task runtime, never on the request
// path, so a slow or failing mail server cannot stall registrations.
package notify
