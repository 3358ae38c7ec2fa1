// Package services implements the driving ports: building a structure
// database, searching and filtering alignment hits, computing contact maps,
// reading the catalog and managing settings.
//
// Services only talk to infrastructure through the driven ports.
package services
