// Package template defines the seam HTML front-ends use to render pages.
package template
