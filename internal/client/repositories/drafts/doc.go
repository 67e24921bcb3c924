// Package drafts stores campaign wizard forms in the local SQLite database so
// an unfinished campaign can be resumed later. Forms are kept as JSON blobs;
// the most recently updated draft is listed first.
package drafts
