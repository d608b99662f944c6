// Package main Synapse Sales Ingestion API
//
//	@title						Synapse Sales Ingestion API
//	@version					1.0
//	@description				Receives Kiwify, Eduzz and Hotmart webhooks and keeps a canonical sales ledger.
//
//	@contact.name				Synapse Support
//	@contact.email				support@synapse.dev
//
//	@license.name				Proprietary
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	AdminToken
//	@in							header
//	@name						X-Admin-Token
//	@description				Static admin token configured via SYNAPSE_ADMIN_TOKEN
//
//	@tag.name					Webhooks
//	@tag.description			Platform webhook ingestion
//
//	@tag.name					Admin
//	@tag.description			Integrations, sales queries and webhook audit log
package main
