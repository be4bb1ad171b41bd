/*
Package domain contains the core domain models of the history-taking engine.

It defines the complaint graphs that drive an interview, the answers collected
along the way and the patient record the narrative is generated from. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Question: a single prompt in a complaint graph (yes/no, choice, text, number or date).
  - ComplaintGraph: the rooted directed graph of questions for one chief complaint.
  - AnswerMap: insertion-ordered question id -> answer value mapping.
  - PatientRecord: demographics, chief complaint and answers consumed by the narrative generator.
  - Session: the runtime snapshot of one interview (cursor, status, answers, history).
*/
package domain
