package catalog

import "accidata/internal/domain"

// Category labels as shown to the user.
const (
	CategoryAccidentDetails   = "🛠️ Accident Details"
	CategoryVehicleDriverInfo = "🚗 Vehicle & Driver Info"
	CategoryVehicleMovement   = "📊 Vehicle Movement & Behaviour"
	CategoryCollision         = "💥 Collision Specifics"
	CategoryWitnesses         = "👮‍♂️ Witnesses & Evidence"
	CategoryFollowUp          = "🧾 Context & Follow-up"
)

// Accident returns the static accident-report questionnaire. Reference
// answers are the sample responses used as a fallback when a spoken answer
// comes back empty.
func Accident() *Catalog {
	return New(accidentQuestions)
}

var accidentQuestions = []domain.Question{
	{ID: 1, Category: CategoryAccidentDetails, Text: "When did the accident happen?", ReferenceAnswer: "March 12, 2024, at 4:15 PM."},
	{ID: 2, Category: CategoryAccidentDetails, Text: "Where did the accident occur?", ReferenceAnswer: "At the intersection of Main Street and 1st Avenue in Los Angeles."},
	{ID: 3, Category: CategoryAccidentDetails, Text: "What type of road was it? (e.g., highway, residential street)", ReferenceAnswer: "It was a four-lane highway."},
	{ID: 4, Category: CategoryAccidentDetails, Text: "Was it during day or night?", ReferenceAnswer: "It happened during daylight."},
	{ID: 5, Category: CategoryAccidentDetails, Text: "What was the weather like at the time?", ReferenceAnswer: "It was raining lightly."},
	{ID: 6, Category: CategoryAccidentDetails, Text: "What were the road conditions?", ReferenceAnswer: "The road was slippery due to rain."},
	{ID: 7, Category: CategoryAccidentDetails, Text: "How many vehicles were involved?", ReferenceAnswer: "Two cars."},
	{ID: 8, Category: CategoryAccidentDetails, Text: "Were there any pedestrians or cyclists involved?", ReferenceAnswer: "No pedestrians or cyclists were involved."},
	{ID: 9, Category: CategoryAccidentDetails, Text: "Was there any construction in the area?", ReferenceAnswer: "Yes, there was a construction barrier on the right side of the road."},
	{ID: 10, Category: CategoryAccidentDetails, Text: "Was traffic heavy or light at the time?", ReferenceAnswer: "Traffic was moderate."},

	{ID: 11, Category: CategoryVehicleDriverInfo, Text: "What were you driving? (Make, model, year)", ReferenceAnswer: "A 2020 Honda Accord."},
	{ID: 12, Category: CategoryVehicleDriverInfo, Text: "What type of vehicle is it?", ReferenceAnswer: "It's a sedan."},
	{ID: 13, Category: CategoryVehicleDriverInfo, Text: "Was your vehicle damaged? If yes, where?", ReferenceAnswer: "Yes, the front bumper was smashed."},
	{ID: 14, Category: CategoryVehicleDriverInfo, Text: "Who was the other driver and what vehicle were they driving?", ReferenceAnswer: "Driver B in a 2018 Ford F-150."},
	{ID: 15, Category: CategoryVehicleDriverInfo, Text: "What type of vehicle was the other party driving?", ReferenceAnswer: "A pickup truck."},
	{ID: 16, Category: CategoryVehicleDriverInfo, Text: "Was either driver using a phone or distracted?", ReferenceAnswer: "The other driver was talking on their phone."},
	{ID: 17, Category: CategoryVehicleDriverInfo, Text: "Was your seatbelt fastened?", ReferenceAnswer: "Yes."},
	{ID: 18, Category: CategoryVehicleDriverInfo, Text: "Was the other driver wearing a seatbelt?", ReferenceAnswer: "I believe so."},
	{ID: 19, Category: CategoryVehicleDriverInfo, Text: "Did either vehicle have mechanical issues?", ReferenceAnswer: "No issues that I know of."},
	{ID: 20, Category: CategoryVehicleDriverInfo, Text: "Was anyone under the influence of drugs or alcohol?", ReferenceAnswer: "No, both drivers were sober."},

	{ID: 21, Category: CategoryVehicleMovement, Text: "What direction were you traveling?", ReferenceAnswer: "Northbound."},
	{ID: 22, Category: CategoryVehicleMovement, Text: "What direction was the other vehicle traveling?", ReferenceAnswer: "Southbound, turning left."},
	{ID: 23, Category: CategoryVehicleMovement, Text: "What was your speed at the time?", ReferenceAnswer: "About 30 mph."},
	{ID: 24, Category: CategoryVehicleMovement, Text: "What was the other vehicle's speed?", ReferenceAnswer: "Probably around 15 mph during the turn."},
	{ID: 25, Category: CategoryVehicleMovement, Text: "Were you following the speed limit?", ReferenceAnswer: "Yes, the speed limit was 35 mph."},
	{ID: 26, Category: CategoryVehicleMovement, Text: "Were you changing lanes or turning?", ReferenceAnswer: "No, I was going straight."},
	{ID: 27, Category: CategoryVehicleMovement, Text: "Was the other vehicle changing lanes or turning?", ReferenceAnswer: "Yes, it was turning left."},
	{ID: 28, Category: CategoryVehicleMovement, Text: "Did either vehicle run a red light or stop sign?", ReferenceAnswer: "The other car ran a red light."},
	{ID: 29, Category: CategoryVehicleMovement, Text: "Did you yield when required?", ReferenceAnswer: "Yes, I had the right of way."},
	{ID: 30, Category: CategoryVehicleMovement, Text: "Was anyone reversing or parked?", ReferenceAnswer: "No, both vehicles were moving."},

	{ID: 31, Category: CategoryCollision, Text: "Where did your vehicle get hit?", ReferenceAnswer: "In the front."},
	{ID: 32, Category: CategoryCollision, Text: "Where did the other vehicle get hit?", ReferenceAnswer: "On the passenger side."},
	{ID: 33, Category: CategoryCollision, Text: "What part of the road were you in? (e.g., left lane, right lane)", ReferenceAnswer: "I was in the right lane."},
	{ID: 34, Category: CategoryCollision, Text: "Did airbags deploy in your vehicle?", ReferenceAnswer: "Yes, the front airbags deployed."},
	{ID: 35, Category: CategoryCollision, Text: "Did airbags deploy in the other vehicle?", ReferenceAnswer: "I'm not sure."},
	{ID: 36, Category: CategoryCollision, Text: "Was there any vehicle rollover?", ReferenceAnswer: "No."},
	{ID: 37, Category: CategoryCollision, Text: "Was there secondary impact (e.g., hitting a tree, pole)?", ReferenceAnswer: "No, just the other car."},
	{ID: 38, Category: CategoryCollision, Text: "Was a tow truck needed?", ReferenceAnswer: "Yes, both cars were towed."},
	{ID: 39, Category: CategoryCollision, Text: "Was the accident reported to insurance?", ReferenceAnswer: "Yes, I've already contacted mine."},
	{ID: 40, Category: CategoryCollision, Text: "Was the accident reported to the police?", ReferenceAnswer: "Yes, a report was filed."},

	{ID: 41, Category: CategoryWitnesses, Text: "Were there any witnesses?", ReferenceAnswer: "Yes, a pedestrian saw everything."},
	{ID: 42, Category: CategoryWitnesses, Text: "Do you have the witness contact information?", ReferenceAnswer: "Yes, I have their name and phone number."},
	{ID: 43, Category: CategoryWitnesses, Text: "Did you take photos of the scene?", ReferenceAnswer: "Yes, I took photos of both cars and the intersection."},
	{ID: 44, Category: CategoryWitnesses, Text: "Do you have dashcam or CCTV footage?", ReferenceAnswer: "Yes, from my dashcam."},
	{ID: 45, Category: CategoryWitnesses, Text: "Did the police assign fault at the scene?", ReferenceAnswer: "Yes, they cited the other driver."},

	{ID: 46, Category: CategoryFollowUp, Text: "Do you have a copy of the police report?", ReferenceAnswer: "Yes, I have the report number and document."},
	{ID: 47, Category: CategoryFollowUp, Text: "Have you spoken to the other driver after the accident?", ReferenceAnswer: "Yes, we exchanged information and briefly discussed the crash."},
	{ID: 48, Category: CategoryFollowUp, Text: "Were there any injuries? If so, to whom?", ReferenceAnswer: "No major injuries, just minor bruises for me."},
	{ID: 49, Category: CategoryFollowUp, Text: "Do you want to provide any additional information?", ReferenceAnswer: "I think the other driver was rushing to make the light."},
	{ID: 50, Category: CategoryFollowUp, Text: "Would you like a summary of the findings once complete?", ReferenceAnswer: "Yes, please send it to my email."},
}
