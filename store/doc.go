// Package store persists the resume collection as a single document.
//
// A Store reads and writes the whole document at once; there are no
// partial or incremental writes. Backends:
//
//   - FileStore: a JSON file on local disk (default)
//   - MemoryStore: a byte buffer, for tests and throwaway sessions
//   - NATSStore: one key in a NATS JetStream KV bucket
//
// The document format is a JSON object mapping resume id to the resume's
// plain-data form, indented for humans, with unicode left unescaped:
//
//	{
//	  "jdoe": {
//	    "resume_id": "jdoe",
//	    "personal_info": {"name": "Jane Doe", "email": "jane@example.com"},
//	    ...
//	  }
//	}
//
// Encode writes keys in the order given and Decode returns them in file
// order, so collection order survives a reload.
package store
