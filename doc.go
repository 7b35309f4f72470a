// Package main provides the entry point for the Mailfort-Admin backend.
// It offers a command line interface for managing mail domains, user
// accounts, aliases and permissions, with persistence through gorm and
// optional synchronization of accounts from an LDAP directory.
package main
