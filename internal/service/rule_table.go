package service

import (
	"regexp"

	"github.com/symptom-intake-server/internal/domain"
)

// labCondition is a sub-rule inside the metabolic panel branch. Keywords are
// checked against the lowercased text; ValuePattern is checked against the
// original-case text, where lab values appear as literal digit substrings.
type labCondition struct {
	Name         string
	Keywords     []string
	ValuePattern *regexp.Regexp
}

// metabolicPanelKeywords gate the lab-value branch as a whole. If none of the
// inner conditions trigger, evaluation falls through to the next rule.
var metabolicPanelKeywords = []string{
	"blood pressure", "hba1c", "cholesterol", "tsh",
	"sgot", "sgpt", "creatinine", "blood sugar", "fasting",
}

// labConditions are evaluated independently; every triggered condition
// contributes its name to the composite disease label, in this order.
var labConditions = []labCondition{
	{
		Name:         "Type 2 Diabetes (Early Stage)",
		Keywords:     []string{"hba1c"},
		ValuePattern: regexp.MustCompile(`[6-9]\.`),
	},
	{
		Name:         "Hypertension (High Blood Pressure)",
		Keywords:     []string{"blood pressure"},
		ValuePattern: regexp.MustCompile(`(138|140|150|90)`),
	},
	{
		Name:         "Hypothyroidism",
		Keywords:     []string{"tsh"},
		ValuePattern: regexp.MustCompile(`[5-9]\.|10\.`),
	},
	{
		Name:         "Fatty Liver / Elevated Liver Enzymes",
		Keywords:     []string{"sgot", "sgpt", "alt", "ast"},
		ValuePattern: regexp.MustCompile(`(48|50|60|62|70)`),
	},
	{
		Name:         "High Cholesterol",
		Keywords:     []string{"cholesterol"},
		ValuePattern: regexp.MustCompile(`(210|220|230|240)`),
	},
}

// metabolicPanelTemplate is the fixed payload shared by every composite
// metabolic result; disease and description are synthesized per call.
var metabolicPanelTemplate = domain.Recommendation{
	Severity:      domain.SeverityModerateToSerious,
	SymptomsMatch: "95%",
	Tips: []domain.Tip{
		{Icon: "🏃", Title: "Regular Exercise", Detail: "At least 150 minutes of moderate aerobic activity per week. Start slow and increase gradually."},
		{Icon: "⚖️", Title: "Weight Management", Detail: "Aim for healthy BMI through balanced diet and exercise. Even 5-10% weight loss helps significantly."},
		{Icon: "🧘", Title: "Stress Management", Detail: "Practice yoga, meditation, or deep breathing exercises daily to reduce stress hormones."},
		{Icon: "😴", Title: "Quality Sleep", Detail: "Get 7-8 hours of uninterrupted sleep. Poor sleep affects blood sugar and blood pressure."},
		{Icon: "📊", Title: "Monitor Regularly", Detail: "Check blood pressure, blood sugar regularly. Keep a log and share with your doctor."},
		{Icon: "💊", Title: "Medication Adherence", Detail: "Take prescribed medications regularly. Don't skip doses without consulting doctor."},
	},
	DietPlan: domain.DietPlan{
		FoodsToEat: []domain.FoodToEat{
			{Icon: "🥗", Name: "Leafy Greens", Benefit: "Low calorie, high fiber, controls blood sugar"},
			{Icon: "🫘", Name: "Legumes & Lentils", Benefit: "Rich in protein and fiber, stabilizes glucose"},
			{Icon: "🐟", Name: "Fatty Fish", Benefit: "Omega-3 reduces inflammation, lowers triglycerides"},
			{Icon: "🥜", Name: "Nuts & Seeds", Benefit: "Healthy fats, controls cholesterol"},
			{Icon: "🌾", Name: "Whole Grains", Benefit: "Complex carbs, better glycemic control"},
			{Icon: "🥑", Name: "Avocado", Benefit: "Healthy monounsaturated fats"},
		},
		FoodsToAvoid: []domain.FoodToAvoid{
			{Icon: "🍬", Name: "Refined Sugar", Reason: "Spikes blood sugar rapidly"},
			{Icon: "🍞", Name: "White Bread/Rice", Reason: "High glycemic index foods"},
			{Icon: "🍟", Name: "Fried Foods", Reason: "High in trans fats, increases cholesterol"},
			{Icon: "🧂", Name: "Excess Salt", Reason: "Raises blood pressure"},
			{Icon: "🥓", Name: "Processed Meats", Reason: "High in sodium and saturated fats"},
			{Icon: "🍺", Name: "Alcohol", Reason: "Affects liver, blood sugar, and BP"},
		},
	},
	WhenToSeeDoctor: []string{
		"Blood pressure consistently above 140/90 mmHg",
		"Fasting blood sugar above 126 mg/dL or HbA1c above 6.5%",
		"Chest pain, severe headaches, or vision changes",
		"Unexplained weight loss or persistent fatigue",
		"Regular follow-up appointments for monitoring and medication adjustment",
	},
}

var commonColdResult = domain.Recommendation{
	Disease:       "Common Cold / Flu",
	Severity:      domain.SeverityMildToModerate,
	Description:   "A viral infection affecting the upper respiratory system caused by rhinoviruses or influenza viruses. Common symptoms include fever, cough, runny nose, and sore throat. The condition is highly contagious and spreads through airborne droplets. Usually resolves within 7-10 days with proper rest and care.",
	SymptomsMatch: "92%",
	Tips: []domain.Tip{
		{Icon: "🛌", Title: "Rest & Sleep", Detail: "Get 7-8 hours of quality sleep. Your body needs rest to fight the infection and recover faster."},
		{Icon: "💧", Title: "Stay Hydrated", Detail: "Drink 8-10 glasses of water, warm herbal teas, and clear broths throughout the day."},
		{Icon: "🧂", Title: "Salt Water Gargle", Detail: "Gargle with warm salt water 3-4 times daily to soothe sore throat and reduce inflammation."},
		{Icon: "💨", Title: "Use Humidifier", Detail: "Add moisture to the air to ease breathing and reduce nasal congestion, especially at night."},
		{Icon: "💊", Title: "OTC Medications", Detail: "Take acetaminophen or ibuprofen for fever and body aches as per recommended dosage."},
		{Icon: "🚫", Title: "Prevent Spread", Detail: "Wash hands frequently, cover mouth when coughing, and avoid close contact with others."},
	},
	DietPlan: domain.DietPlan{
		FoodsToEat: []domain.FoodToEat{
			{Icon: "🍲", Name: "Chicken Soup", Benefit: "Rich in nutrients, reduces inflammation"},
			{Icon: "🍊", Name: "Citrus Fruits", Benefit: "High Vitamin C boosts immunity"},
			{Icon: "🫚", Name: "Ginger Tea", Benefit: "Anti-inflammatory, soothes throat"},
			{Icon: "🧄", Name: "Garlic", Benefit: "Natural antimicrobial properties"},
			{Icon: "🍵", Name: "Herbal Teas", Benefit: "Keeps you hydrated and warm"},
			{Icon: "🥛", Name: "Yogurt", Benefit: "Probiotics support gut health"},
		},
		FoodsToAvoid: []domain.FoodToAvoid{
			{Icon: "🧀", Name: "Dairy Products", Reason: "May increase mucus production"},
			{Icon: "🍬", Name: "Sugary Foods", Reason: "Weakens immune response"},
			{Icon: "🍟", Name: "Fried Foods", Reason: "Hard to digest, causes inflammation"},
			{Icon: "🍺", Name: "Alcohol", Reason: "Dehydrates body, weakens immunity"},
			{Icon: "🧊", Name: "Cold Beverages", Reason: "Can irritate throat further"},
		},
	},
	WhenToSeeDoctor: []string{
		"Fever above 103°F (39.4°C) lasting more than 3 days",
		"Difficulty breathing or shortness of breath",
		"Persistent chest pain or pressure",
		"Severe or worsening symptoms after 10 days",
		"Symptoms in high-risk groups (elderly, pregnant, chronic conditions)",
	},
}

var migraineResult = domain.Recommendation{
	Disease:       "Migraine / Tension Headache",
	Severity:      domain.SeverityModerate,
	Description:   "A common neurological condition characterized by recurring headaches ranging from moderate to severe intensity. Often accompanied by nausea, sensitivity to light and sound, or visual disturbances. Can be triggered by stress, certain foods, or hormonal changes.",
	SymptomsMatch: "88%",
	Tips: []domain.Tip{
		{Icon: "🛌", Title: "Rest in Darkness", Detail: "Lie down in a quiet, dark room to reduce sensory stimulation and help ease pain."},
		{Icon: "❄️", Title: "Cold/Warm Compress", Detail: "Apply cold compress to forehead or warm compress to neck for 15-20 minutes."},
		{Icon: "🧘", Title: "Relaxation Techniques", Detail: "Practice deep breathing, meditation, or progressive muscle relaxation."},
		{Icon: "⏰", Title: "Sleep Schedule", Detail: "Maintain consistent sleep and wake times, even on weekends."},
		{Icon: "💧", Title: "Stay Hydrated", Detail: "Drink plenty of water as dehydration can trigger headaches."},
		{Icon: "🚫", Title: "Avoid Triggers", Detail: "Identify and avoid known triggers like stress, bright lights, or loud noises."},
	},
	DietPlan: domain.DietPlan{
		FoodsToEat: []domain.FoodToEat{
			{Icon: "💧", Name: "Water", Benefit: "Prevents dehydration triggers"},
			{Icon: "🥬", Name: "Magnesium Foods", Benefit: "Spinach, almonds help prevent attacks"},
			{Icon: "🐟", Name: "Fatty Fish", Benefit: "Omega-3 reduces inflammation"},
			{Icon: "🍌", Name: "Bananas", Benefit: "Rich in magnesium and potassium"},
			{Icon: "🌾", Name: "Whole Grains", Benefit: "Stable energy, prevents blood sugar drops"},
			{Icon: "🫚", Name: "Ginger", Benefit: "Natural anti-nausea properties"},
		},
		FoodsToAvoid: []domain.FoodToAvoid{
			{Icon: "🧀", Name: "Aged Cheese", Reason: "Contains tyramine trigger"},
			{Icon: "🍫", Name: "Chocolate", Reason: "Can trigger migraines in some people"},
			{Icon: "🍷", Name: "Red Wine", Reason: "Contains histamine and tannins"},
			{Icon: "🥡", Name: "MSG Foods", Reason: "Common migraine trigger"},
			{Icon: "🧂", Name: "Processed Meats", Reason: "High in nitrates"},
		},
	},
	WhenToSeeDoctor: []string{
		"Sudden severe headache (thunderclap headache)",
		"Headache with fever, stiff neck, confusion, or vision problems",
		"Headache after head injury",
		"Chronic headaches that worsen over time",
		"New headache pattern after age 50",
	},
}

var gastroenteritisResult = domain.Recommendation{
	Disease:       "Gastroenteritis / Stomach Flu",
	Severity:      domain.SeverityMildToModerate,
	Description:   "An inflammation of the digestive tract, commonly called stomach flu, caused by viral or bacterial infection. Characterized by nausea, vomiting, diarrhea, abdominal cramps, and sometimes fever. Usually self-limiting and resolves within 2-3 days with proper hydration.",
	SymptomsMatch: "90%",
	Tips: []domain.Tip{
		{Icon: "💧", Title: "Rehydrate", Detail: "Drink oral rehydration solutions or clear fluids every 15-30 minutes to prevent dehydration."},
		{Icon: "🍚", Title: "BRAT Diet", Detail: "Follow Bananas, Rice, Applesauce, Toast diet once vomiting subsides."},
		{Icon: "⏸️", Title: "Rest Stomach", Detail: "Avoid solid foods for first few hours, gradually reintroduce light foods."},
		{Icon: "🧼", Title: "Hand Hygiene", Detail: "Wash hands thoroughly with soap to prevent spreading infection."},
		{Icon: "🛌", Title: "Get Rest", Detail: "Allow your body to recover with adequate rest and sleep."},
		{Icon: "🚑", Title: "Monitor Symptoms", Detail: "Watch for signs of dehydration like dizziness, dry mouth, or dark urine."},
	},
	DietPlan: domain.DietPlan{
		FoodsToEat: []domain.FoodToEat{
			{Icon: "🥤", Name: "Clear Broths", Benefit: "Easy to digest, provides electrolytes"},
			{Icon: "🍌", Name: "Bananas", Benefit: "Gentle on stomach, replenishes potassium"},
			{Icon: "🍚", Name: "White Rice", Benefit: "Bland, helps firm up stools"},
			{Icon: "🍞", Name: "Toast", Benefit: "Easy to digest carbohydrates"},
			{Icon: "🥥", Name: "Coconut Water", Benefit: "Natural electrolyte replacement"},
			{Icon: "🥛", Name: "Probiotic Yogurt", Benefit: "Restores gut bacteria (after acute phase)"},
		},
		FoodsToAvoid: []domain.FoodToAvoid{
			{Icon: "🥛", Name: "Dairy", Reason: "Hard to digest during illness"},
			{Icon: "🌶️", Name: "Spicy Foods", Reason: "Irritates stomach lining"},
			{Icon: "🍟", Name: "Fried Foods", Reason: "High fat content hard to digest"},
			{Icon: "☕", Name: "Caffeine", Reason: "Can worsen dehydration"},
			{Icon: "🍎", Name: "Raw Fruits/Veggies", Reason: "High fiber may worsen symptoms"},
		},
	},
	WhenToSeeDoctor: []string{
		"Severe dehydration (no urination for 8+ hours)",
		"Blood in vomit or stool",
		"High fever above 102°F (39°C)",
		"Symptoms lasting more than 3 days",
		"Severe abdominal pain or tenderness",
	},
}

var fatigueResult = domain.Recommendation{
	Disease:       "Chronic Fatigue / Exhaustion",
	Severity:      domain.SeverityMildToModerate,
	Description:   "Persistent tiredness and lack of energy that doesn't improve significantly with rest. Can be caused by various factors including poor sleep quality, stress, anemia, thyroid problems, depression, or other underlying health conditions. Requires proper evaluation to identify root cause.",
	SymptomsMatch: "85%",
	Tips: []domain.Tip{
		{Icon: "⏰", Title: "Sleep Schedule", Detail: "Maintain consistent sleep-wake times. Aim for 7-9 hours nightly."},
		{Icon: "🏃", Title: "Regular Exercise", Detail: "Light to moderate exercise boosts energy. Start with 20-30 minute walks."},
		{Icon: "🧘", Title: "Stress Management", Detail: "Practice meditation, yoga, or deep breathing to reduce stress levels."},
		{Icon: "☕", Title: "Limit Caffeine", Detail: "Avoid caffeine after 2 PM to prevent sleep disruption."},
		{Icon: "💊", Title: "Check Deficiencies", Detail: "Get blood work to check for vitamin D, B12, iron deficiencies."},
		{Icon: "👨‍⚕️", Title: "Medical Evaluation", Detail: "Consult doctor if fatigue persists despite lifestyle changes."},
	},
	DietPlan: domain.DietPlan{
		FoodsToEat: []domain.FoodToEat{
			{Icon: "🥬", Name: "Iron-Rich Foods", Benefit: "Spinach, lentils combat anemia"},
			{Icon: "🌾", Name: "Whole Grains", Benefit: "Sustained energy release"},
			{Icon: "🍳", Name: "Protein Foods", Benefit: "Eggs, chicken support energy"},
			{Icon: "🥜", Name: "Nuts & Seeds", Benefit: "Healthy fats and minerals"},
			{Icon: "🍎", Name: "Fresh Produce", Benefit: "Vitamins and antioxidants"},
			{Icon: "💧", Name: "Water", Benefit: "Proper hydration essential"},
		},
		FoodsToAvoid: []domain.FoodToAvoid{
			{Icon: "🍬", Name: "Refined Sugar", Reason: "Causes energy crashes"},
			{Icon: "🍕", Name: "Processed Foods", Reason: "Low nutritional value"},
			{Icon: "☕", Name: "Excess Caffeine", Reason: "Disrupts natural energy"},
			{Icon: "🍺", Name: "Alcohol", Reason: "Impairs sleep quality"},
			{Icon: "🍟", Name: "Fried Foods", Reason: "Causes sluggishness"},
		},
	},
	WhenToSeeDoctor: []string{
		"Fatigue lasting more than 2 weeks without improvement",
		"Unexplained weight loss or gain",
		"Difficulty concentrating or memory problems",
		"Shortness of breath with minimal exertion",
		"Signs of depression or mood changes",
	},
}

var allergyResult = domain.Recommendation{
	Disease:       "Allergic Reaction",
	Severity:      domain.SeverityMildToModerate,
	Description:   "An immune system response to a foreign substance (allergen) such as pollen, dust mites, pet dander, certain foods, or insect stings. Symptoms range from mild (sneezing, itching) to severe (anaphylaxis). Most allergic reactions can be managed with avoidance and medications.",
	SymptomsMatch: "87%",
	Tips: []domain.Tip{
		{Icon: "🔍", Title: "Identify Triggers", Detail: "Keep a diary to track and identify specific allergen triggers."},
		{Icon: "🪟", Title: "Indoor Control", Detail: "Keep windows closed during high pollen seasons, use air purifiers."},
		{Icon: "🧹", Title: "Clean Regularly", Detail: "Vacuum and dust frequently to remove allergens from home."},
		{Icon: "💊", Title: "Antihistamines", Detail: "Take over-the-counter antihistamines as directed for symptom relief."},
		{Icon: "🧼", Title: "Wash Frequently", Detail: "Wash hands and face after outdoor activities to remove pollen."},
		{Icon: "👨‍⚕️", Title: "Allergy Testing", Detail: "Consult allergist for testing and potential immunotherapy."},
	},
	DietPlan: domain.DietPlan{
		FoodsToEat: []domain.FoodToEat{
			{Icon: "🫚", Name: "Turmeric/Ginger", Benefit: "Natural anti-inflammatory"},
			{Icon: "🍎", Name: "Quercetin Foods", Benefit: "Apples, onions stabilize mast cells"},
			{Icon: "🐟", Name: "Omega-3 Fish", Benefit: "Reduces inflammatory response"},
			{Icon: "🥛", Name: "Probiotics", Benefit: "Supports immune function"},
			{Icon: "🥬", Name: "Leafy Greens", Benefit: "Anti-inflammatory nutrients"},
			{Icon: "🍯", Name: "Local Honey", Benefit: "May help with pollen allergies"},
		},
		FoodsToAvoid: []domain.FoodToAvoid{
			{Icon: "🥜", Name: "Common Allergens", Reason: "Check personal trigger foods"},
			{Icon: "🥡", Name: "Processed Foods", Reason: "Contains additives and preservatives"},
			{Icon: "🧀", Name: "Histamine-Rich", Reason: "Aged cheese, wine may worsen symptoms"},
			{Icon: "🍭", Name: "Artificial Dyes", Reason: "Can trigger allergic responses"},
			{Icon: "🦐", Name: "Shellfish", Reason: "Common severe allergen"},
		},
	},
	WhenToSeeDoctor: []string{
		"Difficulty breathing or swallowing (call 911)",
		"Severe swelling of face, lips, or tongue",
		"Rapid pulse or dizziness",
		"Allergic reactions getting progressively worse",
		"Need for allergy testing or immunotherapy evaluation",
	},
}

var unspecifiedResult = domain.Recommendation{
	Disease:       "Unspecified Condition",
	Severity:      domain.SeverityUnknown,
	Description:   "Based on your symptoms, we recommend consulting with a healthcare professional for accurate diagnosis. Your symptoms may require medical evaluation and possibly diagnostic tests to determine the exact condition and appropriate treatment plan.",
	SymptomsMatch: "75%",
	Tips: []domain.Tip{
		{Icon: "📝", Title: "Track Symptoms", Detail: "Keep a detailed diary noting symptom onset, severity, and duration."},
		{Icon: "🌡️", Title: "Monitor Vitals", Detail: "Track temperature, pulse, and any other relevant measurements."},
		{Icon: "🛌", Title: "Get Rest", Detail: "Ensure adequate sleep and rest to support recovery."},
		{Icon: "💧", Title: "Stay Hydrated", Detail: "Drink plenty of fluids throughout the day."},
		{Icon: "🍎", Title: "Balanced Diet", Detail: "Eat nutritious, well-balanced meals to support immune system."},
		{Icon: "👨‍⚕️", Title: "Seek Medical Care", Detail: "Schedule appointment with doctor for proper evaluation."},
	},
	DietPlan: domain.DietPlan{
		FoodsToEat: []domain.FoodToEat{
			{Icon: "🍎", Name: "Fresh Fruits", Benefit: "Vitamins and antioxidants"},
			{Icon: "🥗", Name: "Vegetables", Benefit: "Essential nutrients and fiber"},
			{Icon: "🌾", Name: "Whole Grains", Benefit: "Complex carbohydrates for energy"},
			{Icon: "🍗", Name: "Lean Proteins", Benefit: "Supports tissue repair"},
			{Icon: "💧", Name: "Water", Benefit: "Maintains hydration"},
			{Icon: "🥜", Name: "Nuts & Seeds", Benefit: "Healthy fats and minerals"},
		},
		FoodsToAvoid: []domain.FoodToAvoid{
			{Icon: "🍕", Name: "Processed Foods", Reason: "Low nutritional value"},
			{Icon: "🍬", Name: "Excessive Sugar", Reason: "May weaken immune response"},
			{Icon: "🍟", Name: "Fried Foods", Reason: "Hard to digest"},
			{Icon: "🍺", Name: "Alcohol", Reason: "Can interfere with medications"},
			{Icon: "☕", Name: "Excess Caffeine", Reason: "May affect sleep and hydration"},
		},
	},
	WhenToSeeDoctor: []string{
		"Symptoms persist or worsen despite self-care",
		"New or unusual symptoms develop",
		"High fever, severe pain, or breathing difficulties",
		"Symptoms significantly impact daily activities",
		"Uncertainty about diagnosis or treatment",
	},
}
