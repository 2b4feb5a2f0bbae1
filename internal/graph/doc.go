// Package graph contains the Microsoft Graph collaborators used to bootstrap
// new one-on-one chats: app-only token acquisition via the Azure AD
// client-credentials flow, and chat creation against the /chats endpoint.
//
// Failures are returned as plain errors carrying the HTTP status and response
// body; classifying them (retryable vs. misconfiguration) is the caller's
// decision.
package graph
