// Package adapter implements the Teams channel adapter on top of the Bot
// Framework connector API.
//
// The adapter exposes two capabilities:
//
//   - ContinueConversation: post a message activity into an existing
//     conversation at its recorded service URL
//   - ProcessActivity: handle an inbound activity, suppressing Teams
//     redeliveries via a dedupe cache
//
// Load constructs an adapter from the channel configuration, wiring up an
// app-only connector token source for outbound calls.
package adapter
