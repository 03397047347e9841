package storage

import (
	"context"

	"github.com/REHANAMD/InternGenie/pkg/models"
)

// SeedSampleData fills an empty catalog with the built-in sample postings.
// A catalog that already has rows is left untouched; the demo endpoint and
// the seed command both call this, so reruns stay idempotent.
func (s *Store) SeedSampleData(ctx context.Context) (int, error) {
	count, err := s.CountInternships(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for i := range sampleCatalog {
		in := sampleCatalog[i]
		if _, err := s.CreateInternship(ctx, &in); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

var sampleCatalog = []models.Internship{
	{
		Title:              "Data Science Intern",
		Company:            "TechCorp",
		Location:           "Mumbai",
		Description:        "Work with the analytics team on churn prediction models.",
		RequiredSkills:     "Python, Machine Learning",
		PreferredSkills:    "SQL, TensorFlow",
		Duration:           "6 months",
		Stipend:            "25000 INR/month",
		MinEducation:       "Bachelor's",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "Backend Engineering Intern",
		Company:            "FinEdge",
		Location:           "Bangalore",
		Description:        "Build payment reconciliation services in Go.",
		RequiredSkills:     "Go, SQL",
		PreferredSkills:    "Docker, Redis",
		Duration:           "6 months",
		Stipend:            "30000 INR/month",
		MinEducation:       "Bachelor's",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "Frontend Developer Intern",
		Company:            "ShopKart",
		Location:           "Remote",
		Description:        "Ship storefront features with the web platform team.",
		RequiredSkills:     "JavaScript, React",
		PreferredSkills:    "TypeScript, CSS",
		Duration:           "3 months",
		Stipend:            "20000 INR/month",
		MinEducation:       "Diploma",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "DevOps Intern",
		Company:            "CloudNine",
		Location:           "Hyderabad",
		Description:        "Automate deployment pipelines and observability dashboards.",
		RequiredSkills:     "Linux, Docker",
		PreferredSkills:    "Kubernetes, Terraform",
		Duration:           "6 months",
		Stipend:            "28000 INR/month",
		MinEducation:       "Bachelor's",
		ExperienceRequired: 1,
		IsActive:           true,
	},
	{
		Title:              "Machine Learning Intern",
		Company:            "VisionLabs",
		Location:           "Pune",
		Description:        "Prototype image classification models for retail analytics.",
		RequiredSkills:     "Python, Deep Learning",
		PreferredSkills:    "PyTorch, OpenCV",
		Duration:           "6 months",
		Stipend:            "35000 INR/month",
		MinEducation:       "Master's",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "Mobile App Development Intern",
		Company:            "RideLink",
		Location:           "Delhi",
		Description:        "Build rider-facing features for the Android app.",
		RequiredSkills:     "Kotlin, Android",
		PreferredSkills:    "Jetpack Compose",
		Duration:           "4 months",
		Stipend:            "22000 INR/month",
		MinEducation:       "Bachelor's",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "UI/UX Design Intern",
		Company:            "Studio Pixel",
		Location:           "Remote",
		Description:        "Design onboarding flows alongside the product team.",
		RequiredSkills:     "Figma, Wireframing",
		PreferredSkills:    "Prototyping, User Research",
		Duration:           "3 months",
		Stipend:            "Unpaid",
		MinEducation:       "High School",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "Data Engineering Intern",
		Company:            "TechCorp",
		Location:           "Mumbai",
		Description:        "Maintain the ingestion pipelines feeding the warehouse.",
		RequiredSkills:     "Python, SQL",
		PreferredSkills:    "Airflow, Spark",
		Duration:           "6 months",
		Stipend:            "26000 INR/month",
		MinEducation:       "Bachelor's",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "QA Automation Intern",
		Company:            "FinEdge",
		Location:           "Bangalore",
		Description:        "Extend the end-to-end regression suite.",
		RequiredSkills:     "Python, Selenium",
		PreferredSkills:    "CI/CD",
		Duration:           "3 months",
		Stipend:            "18000 INR/month",
		MinEducation:       "Diploma",
		ExperienceRequired: 0,
		IsActive:           true,
	},
	{
		Title:              "Cybersecurity Intern",
		Company:            "SecureStack",
		Location:           "Chennai",
		Description:        "Assist with vulnerability triage and hardening playbooks.",
		RequiredSkills:     "Networking, Linux",
		PreferredSkills:    "Burp Suite, Python",
		Duration:           "6 months",
		Stipend:            "24000 INR/month",
		MinEducation:       "Bachelor's",
		ExperienceRequired: 0,
		IsActive:           true,
	},
}
