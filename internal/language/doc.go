// Package language normalizes subtitle language codes.
//
// Softsub renders tag the subtitle track with an ISO 639-2 code derived from
// the subtitle filename; probe and summary output show English display names.
// A small table covers common codes and legacy bibliographic forms; anything
// else is resolved through golang.org/x/text/language.
package language
