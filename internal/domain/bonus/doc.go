// Package bonus computes vendor commissions over a set of invoices.
//
// Rates are fractions throughout: 0.10 is ten percent. Conversion to whole
// percent happens only where results leave the service over HTTP, and in the
// report enrichment columns, which are whole percent by definition.
package bonus
