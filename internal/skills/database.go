package skills

import "strings"

// Database holds the canonical skill dictionary plus the alias table used to
// normalize variations ("js" -> "javascript"). Built once at startup and
// read-only afterwards.
type Database struct {
	categories map[string][]string
	// alias (lowercase) -> canonical (lowercase)
	variations map[string]string
}

func NewDatabase() *Database {
	db := &Database{
		categories: map[string][]string{
			"programming_languages": {
				"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Go", "Rust",
				"Ruby", "PHP", "Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl",
				"Objective-C", "Dart", "Elixir", "Haskell", "Julia", "Clojure",
			},
			"web_technologies": {
				"React", "Angular", "Vue.js", "Node.js", "Express.js", "Django",
				"Flask", "Spring Boot", "ASP.NET", "Laravel", "Rails", "FastAPI",
				"Next.js", "Nuxt.js", "Svelte", "GraphQL", "REST API", "WebSocket",
			},
			"databases": {
				"MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch",
				"Cassandra", "Neo4j", "DynamoDB", "SQLite", "Oracle", "SQL Server",
				"MariaDB", "CouchDB", "InfluxDB", "Amazon RDS",
			},
			"cloud_platforms": {
				"AWS", "Azure", "Google Cloud", "GCP", "Heroku", "DigitalOcean",
				"Kubernetes", "Docker", "Terraform", "CloudFormation", "Ansible",
				"Jenkins", "GitLab CI", "GitHub Actions", "CircleCI",
			},
			"data_science": {
				"Machine Learning", "Deep Learning", "NLP", "Computer Vision",
				"TensorFlow", "PyTorch", "Scikit-learn", "Pandas", "NumPy",
				"Matplotlib", "Seaborn", "Jupyter", "Apache Spark", "Hadoop",
				"Tableau", "Power BI", "Apache Kafka", "Apache Airflow",
			},
			"mobile_development": {
				"React Native", "Flutter", "Android", "iOS", "Xamarin",
				"Ionic", "Cordova", "Unity", "Unreal Engine",
			},
			"soft_skills": {
				"Leadership", "Communication", "Problem Solving", "Team Work",
				"Project Management", "Agile", "Scrum", "Critical Thinking",
				"Analytical Thinking", "Creativity", "Adaptability",
			},
		},
	}

	db.variations = buildVariations(db.categories)
	return db
}

func buildVariations(categories map[string][]string) map[string]string {
	variations := make(map[string]string)

	for _, list := range categories {
		for _, skill := range list {
			canonical := strings.ToLower(skill)
			variations[canonical] = canonical
		}
	}

	// common shorthand seen in resumes
	aliases := map[string]string{
		"js":         "javascript",
		"ts":         "typescript",
		"golang":     "go",
		"k8s":        "kubernetes",
		"postgres":   "postgresql",
		"ml":         "machine learning",
		"dl":         "deep learning",
		"reactjs":    "react",
		"react.js":   "react",
		"nodejs":     "node.js",
		"node":       "node.js",
		"vuejs":      "vue.js",
		"vue":        "vue.js",
		"nextjs":     "next.js",
		"expressjs":  "express.js",
		"express":    "express.js",
		"mongo":      "mongodb",
		"tf":         "tensorflow",
		"sklearn":    "scikit-learn",
		"amazon web services": "aws",
		"google cloud platform": "gcp",
		"ci/cd":      "jenkins",
		"teamwork":   "team work",
	}
	for alias, canonical := range aliases {
		variations[alias] = canonical
	}

	return variations
}

// Canonical resolves a term to its canonical dictionary form. The boolean
// reports whether the term is a known skill at all.
func (d *Database) Canonical(term string) (string, bool) {
	canonical, ok := d.variations[strings.ToLower(strings.TrimSpace(term))]
	return canonical, ok
}

// KnownSkills returns every canonical dictionary entry, lowercased.
func (d *Database) KnownSkills() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range d.categories {
		for _, skill := range list {
			lower := strings.ToLower(skill)
			if _, ok := seen[lower]; ok {
				continue
			}
			seen[lower] = struct{}{}
			out = append(out, lower)
		}
	}
	return out
}
