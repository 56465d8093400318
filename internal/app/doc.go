// Package app composes the portal services into a running application.
//
// Layout:
//
//	internal/app/
//	├── application.go      # Wiring and lifecycle
//	├── domain/             # Entity types (games, products, votes, sessions)
//	├── storage/            # Persistence ports
//	│   ├── memory/         # In-memory backend for development and tests
//	│   └── supabasestore/  # Hosted backend over infra/supabase
//	└── services/
//	    ├── wallet/         # Session manager over the provider extension
//	    ├── catalog/        # Filter + pagination pipelines
//	    ├── votes/          # Vote flow and per-session choice cache
//	    └── listings/       # Submission flows and photo upload
//
// Services hold no business rules the backend also enforces; they validate
// locally, call the storage ports, and keep per-session view state.
package app
