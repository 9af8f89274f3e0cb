package dashboard

var translations = map[Language]map[string]string{
	LanguageEnglish: {
		"title":                "BioSmart Informatics Lab",
		"subtitle":             "The Advanced Evidence-Based Health IT Ecosystem",
		"badge":                "System Version 3.0.4",
		"status":               "Status: Fully Operational",
		"menu.overview":        "Dashboard Overview",
		"menu.ehr-integration": "EHR Integration",
		"menu.security":        "Security & Encryption",
		"sidebar.evidence":     "Evidence-Based Support",
		"sidebar.caption":      "Based on HIMSS Interoperability Standards and ISO 27001 Security.",
		"metric.interop":       "Clinical Interoperability",
		"metric.accuracy":      "Predictive Accuracy",
		"metric.hipaa":         "HIPAA Compliance",
		"metric.hipaa.value":   "Verified",
		"metric.nodes":         "Active EHR Nodes",
		"tab.dikw":             "DIKW Architecture",
		"tab.nlp":              "AI Clinical Engine",
		"tab.population":       "Population Analytics",
		"dikw.heading":         "DIKW Model in Practice",
		"dikw.intro":           "In health informatics raw data has no value until it becomes clinical wisdom.",
		"dikw.data":            "Data: blood pressure reading 160/95.",
		"dikw.information":     "Information: elevated blood pressure (Stage 2).",
		"dikw.knowledge":       "Knowledge: linking the elevation with family history and renal failure.",
		"dikw.wisdom":          "Wisdom: start a tailored treatment protocol to prevent stroke.",
		"nlp.heading":          "AI Clinical Entity Extraction (NLP)",
		"nlp.hint":             "Enter a clinical note to map it to international ICD-10 codes.",
		"nlp.results":          "AI Analysis Results",
		"nlp.empty":            "No clinical entities identified. Try mentioning 'Diabetes' or 'Heart'.",
		"risk.heading":         "Patient Risk Score",
		"tier.low":             "Low risk",
		"tier.moderate":        "Moderate risk",
		"tier.high":            "High risk",
		"population.heading":   "Population Health Risk Management",
		"population.chart":     "Patient Risk Stratification",
		"population.reference": "Study Reference: Building on 'Predictive Analytics in Healthcare' (IEEE 2024).",
	},
	LanguageArabic: {
		"title":                "مختبر بايوسمارت للمعلوماتية",
		"subtitle":             "منظومة متقدمة لتقنية المعلومات الصحية المبنية على الدليل",
		"badge":                "إصدار النظام 3.0.4",
		"status":               "الحالة: يعمل بالكامل",
		"menu.overview":        "نظرة عامة",
		"menu.ehr-integration": "تكامل السجلات الصحية",
		"menu.security":        "الأمن والتشفير",
		"sidebar.evidence":     "دعم مبني على الدليل",
		"sidebar.caption":      "وفق معايير HIMSS للتشغيل البيني ومعيار ISO 27001 للأمن.",
		"metric.interop":       "التشغيل البيني السريري",
		"metric.accuracy":      "دقة التنبؤ",
		"metric.hipaa":         "الامتثال لـ HIPAA",
		"metric.hipaa.value":   "موثق",
		"metric.nodes":         "عقد السجلات النشطة",
		"tab.dikw":             "هرم المعرفة DIKW",
		"tab.nlp":              "المحرك السريري الذكي",
		"tab.population":       "تحليلات السكان",
		"dikw.heading":         "نموذج DIKW عمليا",
		"dikw.intro":           "في المعلوماتية الصحية، لا قيمة للبيانات الخام ما لم تتحول إلى حكمة سريرية.",
		"dikw.data":            "البيانات: قياس الضغط 160/95.",
		"dikw.information":     "المعلومة: ضغط دم مرتفع (المرحلة 2).",
		"dikw.knowledge":       "المعرفة: ربط الارتفاع مع تاريخ العائلة وفشل كلوي.",
		"dikw.wisdom":          "الحكمة: البدء ببروتوكول علاجي مخصص لمنع سكتة دماغية.",
		"nlp.heading":          "استخراج الكيانات السريرية بالذكاء الاصطناعي",
		"nlp.hint":             "قم بإدخال ملاحظة طبية ليقوم الذكاء الاصطناعي بتحويلها إلى رموز ICD-10 عالمية.",
		"nlp.results":          "نتائج التحليل",
		"nlp.empty":            "لم يتم التعرف على كيانات سريرية. جرّب ذكر 'سكري' أو 'قلب'.",
		"risk.heading":         "درجة خطورة المريض",
		"tier.low":             "خطورة منخفضة",
		"tier.moderate":        "خطورة متوسطة",
		"tier.high":            "خطورة عالية",
		"population.heading":   "إدارة مخاطر صحة السكان",
		"population.chart":     "تصنيف خطورة المرضى",
		"population.reference": "مرجع الدراسة: 'التحليلات التنبؤية في الرعاية الصحية' (IEEE 2024).",
	},
}

// T looks up a UI string, falling back to English and then to the key.
func T(lang Language, key string) string {
	if table, ok := translations[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := translations[LanguageEnglish][key]; ok {
		return s
	}
	return key
}

func Direction(lang Language) string {
	if lang == LanguageArabic {
		return "rtl"
	}
	return "ltr"
}
