// SPDX-License-Identifier: MPL-2.0

package provision

const (
	// KindSecret is a credential file (password, token).
	KindSecret ArtifactKind = "secret"
	// KindConfig is a service configuration file.
	KindConfig ArtifactKind = "config"
	// KindDescriptor is the compose file that declares the stack.
	KindDescriptor ArtifactKind = "descriptor"
)

const (
	// CreateIfAbsent writes the artifact only when no file exists at its
	// path. Existing content is never touched.
	CreateIfAbsent OverwritePolicy = "create_if_absent"
	// AlwaysRegenerate rewrites the artifact on every run.
	AlwaysRegenerate OverwritePolicy = "always_regenerate"
)

const (
	// ActionCreated means the file did not exist and was written.
	ActionCreated ArtifactAction = "created"
	// ActionPreserved means an existing file was left untouched.
	ActionPreserved ArtifactAction = "preserved"
	// ActionRegenerated means the file was rewritten from current inputs.
	ActionRegenerated ArtifactAction = "regenerated"
)

type (
	// ArtifactKind classifies what an artifact is for.
	ArtifactKind string

	// OverwritePolicy decides what happens when an artifact's file
	// already exists.
	OverwritePolicy string

	// ArtifactAction records what a provisioning run did to an artifact.
	ArtifactAction string

	// Artifact describes one generated file and what this run did with it.
	Artifact struct {
		// Path is the absolute path of the file.
		Path string
		// Kind classifies the artifact.
		Kind ArtifactKind
		// Policy is the overwrite policy that was applied.
		Policy OverwritePolicy
		// Action is what this run actually did.
		Action ArtifactAction
	}
)
