// Package google provides shared infrastructure for talking to the Google
// Drive API: credential resolution, service construction, rate limiting,
// and error classification.
package google
