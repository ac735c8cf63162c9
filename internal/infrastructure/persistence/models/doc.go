// Package models maps the service and supply aggregates onto tables. Domain
// types carry no gorm tags; each model converts back with ToDomain and is
// built from its aggregate by FromDomain.
package models
