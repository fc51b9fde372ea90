// Package platform holds the built-in target platform profiles: duration
// caps, default stage counts, and narration word rates.
//
// Mission validation checks the requested platform and duration against
// these profiles, and the pipeline fills unset mission fields (stage
// count, word rate) from the matching profile's defaults.
package platform
