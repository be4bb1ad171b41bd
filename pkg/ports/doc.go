/*
Package ports defines the driven ports (interfaces) for the history-taking engine.

These interfaces decouple the interview core from external implementations,
allowing it to work with various catalog sources, storage backends and
identity providers.

# Key Interfaces

  - GraphLoader: loads complaint graphs (bundled, YAML files or Loam).
  - SessionStore: persists and loads interview Sessions.
  - RecordStore: persists patient records and their answers.
  - SessionProvider: resolves a bearer credential into a Principal with role claims.
  - SessionLocker: serializes turns on one session across replicas.
*/
package ports
