/*
Package narrative renders a patient record into a Markdown-like clinical note.

The note has a demographics block, the chief complaint, a History of Present
Illness paragraph assembled from well-known answers, an optional
"### WARNING: Red Flag Symptoms Present" block and fixed Assessment and Plan
sections. Heading prefixes are part of the output contract: renderers key off
them.

Generation never fails. Missing input yields InsufficientData and an unknown
complaint yields ComplaintNotFound, both meant to be displayed as-is.
*/
package narrative
