// Package config provides configuration loading, merging, and validation
// facilities for the e2ee-keeper client and the key material server.
//
// Configuration is assembled from multiple sources; for every field the
// first source that sets it wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Unset fields receive defaults (60 s clipboard TTL, Argon2id t=3 m=64 MiB
// p=4, AES-256-GCM, ...). The entry points are [GetClientConfig] and
// [GetServerConfig].
package config
