// Package store implements the content stores that keep message literals.
//
// Literals may be kept in memory, in individual encrypted files on disk, or in an encrypted Badger database.
// The message store only references content by imap.InternalMessageID.
package store
