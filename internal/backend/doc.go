// Package backend is the HTTP client for the Cloak redaction and analysis
// services.
//
// A run makes three kinds of calls: POST /api/redact exchanges raw file
// content for abstracted content plus restoration maps, POST
// /api/process_code starts an asynchronous analysis job over the abstracted
// files, and GET /api/status/{job_id} reports job progress. [Poller] drives
// the status calls with a bounded attempt count and a fixed interval.
//
// Submissions carry a SHA-256 digest over the sorted non-empty file contents
// so the service can detect in-transit tampering or reordering.
package backend
