package mock

// categoryRules is the ordered keyword table. Order matters: the first
// keyword contained in the lowercased prompt wins.
var categoryRules = []rule{
	{
		keyword: "courses",
		response: `## Available Courses

Here are courses that align well with current industry demand:

**Data & AI**
- CS 6375 Machine Learning — supervised and unsupervised learning, model evaluation
- CS 6350 Big Data Management and Analytics — Spark, distributed pipelines
- CS 6320 Natural Language Processing — transformers, embeddings, evaluation

**Software Engineering**
- CS 6359 Object-Oriented Analysis and Design — patterns and architecture
- CS 6349 Network Security — applied cryptography, protocol analysis

**Recommended pairing**: students targeting ML engineering roles usually take Machine Learning and Big Data Management in the same term, then follow with NLP.

Would you like details on prerequisites or professor ratings for any of these?`,
	},
	{
		keyword: "recent jobs",
		response: `## Recent Job Market Snapshot

Based on the latest postings pulled from company career pages:

**Hot roles this month**
- Machine Learning Engineer — 340+ openings, median posted range $145k–$195k
- Data Engineer — 280+ openings, strong demand for Spark and Airflow
- Backend Engineer (Go/Java) — 260+ openings, cloud-native experience expected

**Skills appearing most often**
Python, SQL, AWS, Kubernetes, and at least one deep-learning framework. Postings increasingly list vector databases and LLM integration as differentiators.

**Trend**: entry-level listings are down slightly, but internships converting to full-time offers are up. Tailoring your resume to a specific role family noticeably improves response rates.

Want me to break down openings for a specific title or location?`,
	},
	{
		keyword: "terms",
		response: `## Common Terms Explained

A quick glossary of terms that come up in course planning and job hunting:

- **Prerequisite**: a course you must complete before enrolling in another.
- **Credit hour**: one hour of instruction per week across a term; most graduate courses are 3 credit hours.
- **ATS (Applicant Tracking System)**: software that screens resumes before a human reads them — keyword alignment matters.
- **Return offer**: a full-time offer extended after an internship.
- **RAG (Retrieval-Augmented Generation)**: an LLM pattern that grounds answers in retrieved documents; increasingly common in job descriptions.

Ask about any specific term and I can go deeper with examples.`,
	},
	{
		keyword: "project planning",
		response: `## Project Planning Guide

A strong portfolio project is scoped, shipped, and documented. Suggested structure:

**Week 1 — Scope**
Pick one problem you can describe in a single sentence. Define what "done" looks like before writing code.

**Weeks 2–3 — Build**
Start with the data path end to end, even if every piece is rough. Add tests as interfaces stabilize.

**Week 4 — Ship and write up**
Deploy somewhere public, write a README that covers the architecture decision you're proudest of, and record a two-minute demo.

**Ideas that recruiters respond to**: a resume-to-job matcher, a course-demand dashboard built on real postings, or an agent that answers questions over a public dataset.

Tell me your target role and I can suggest a project tuned to it.`,
	},
	{
		keyword: "learning resources",
		response: `## Learning Resources

Curated starting points, ordered by how often alumni recommend them:

**Foundations**
- *Designing Data-Intensive Applications* — the canonical systems text
- MIT OpenCourseWare 6.006 — algorithms with real problem sets

**Machine Learning**
- fast.ai Practical Deep Learning — code-first, project oriented
- Stanford CS229 lecture notes — the math behind the models

**Interview preparation**
- NeetCode roadmap for coding rounds
- *System Design Interview* (Xu) for the design round

**Habit that matters most**: one completed project beats five started tutorials. Pick a resource, finish it, and build something with what it taught you.

Want recommendations narrowed to a specific skill gap?`,
	},
}

// genericTemplates answer prompts that match no category. Each template
// echoes the original prompt so the reply stays anchored to what was
// asked. One is chosen pseudo-randomly per request.
var genericTemplates = []string{
	`That's a great question about "%s". While I don't have live data for that right now, I can help you with course recommendations, recent job market trends, project planning, or learning resources. Which of those would be most useful?`,
	`I looked into "%s" but couldn't match it to my current knowledge areas. I'm strongest on available courses, recent jobs, common terms, project planning, and learning resources — try rephrasing toward one of those.`,
	`Thanks for asking about "%s". My best coverage today is the course catalog, the job market, and career project planning. Could you point your question at one of those areas so I can give you something concrete?`,
	`"%s" is a bit outside what I can answer well at the moment. If it relates to choosing courses, understanding the job market, or planning a portfolio project, ask it that way and I'll have much more for you.`,
}
