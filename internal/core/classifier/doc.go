// Package classifier assigns a DocumentType to extracted document text.
//
// Each detector is a pure function over the text that accumulates integer
// evidence and compares it with a fixed threshold. The weights and
// thresholds below were tuned by hand against real boletos, NFS-e/NF-e
// prints, RPS lodging receipts and forwarded e-mails; they are a tuning
// surface, not business rules, and changing one shifts recall for the
// whole corpus.
//
// A Classifier applies the detectors in a fixed order and the first match
// wins. An e-mail body always resolves to Outros, whatever else it matches.
package classifier
