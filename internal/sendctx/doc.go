// Package sendctx resolves the concrete messaging context an outbound Teams
// message should be delivered into.
//
// # Overview
//
// Given a logical target ("send to this user" or "send to this existing
// conversation"), the Resolver decides whether a durable conversation
// reference already exists in the store. If not, it bootstraps one: resolve
// channel credentials, acquire a Graph token, create a one-on-one chat, and
// persist the resulting reference for reuse. The caller receives a
// SendContext bundling the conversation id, type, service URL, and the
// channel adapter handle needed for delivery.
//
// # Collaborators
//
// All dependencies are explicit interfaces injected through New:
//
//   - ConversationStore: durable reference lookup and persistence
//   - TokenResolver / TokenResolverFactory: directory token acquisition
//   - ChatCreator: one-on-one chat creation via Graph
//   - AdapterLoader: channel adapter construction
//
// Production wiring defaults to the graph and adapter packages; tests inject
// doubles.
//
// # Error Handling
//
// Failures surface as *Error tagged with an ErrorKind: configuration,
// invalid_target, credential, bootstrap, or internal. Bootstrap errors wrap
// the underlying token/creation failure with the operation name so an
// operator can tell "permission denied" from "service unavailable". Store
// failures propagate unwrapped; a store miss is a normal outcome, never an
// error.
//
// Concurrent resolutions for the same user are not serialized here: two
// racing calls can each bootstrap a chat. The store's idempotent upsert
// keeps each record consistent; at-most-one-bootstrap-per-user would belong
// in the store or an external coordination layer.
package sendctx
