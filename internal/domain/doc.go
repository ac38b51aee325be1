// Package domain contains the core entities and value objects for tweetsim.
//
// This package has no dependencies on infrastructure concerns (file system,
// logging, random sources) and contains only the data model and its rules.
//
// # Entities
//
//   - [Tweet]: A single simulated record with id, timestamp, text label and author
//   - [Batch]: An ordered snapshot of tweets, numbered from 1
//   - [DeletionInterval]: The batch range in which a deleted tweet is present
//
// # Labels
//
// Every tweet text encodes its ground truth as "<category> <k> / <N>", see
// [Label] and [ParseLabel].
package domain
